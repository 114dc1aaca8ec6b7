package metadata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// exiftoolArgs mirrors photosort/extractor/exiftool.py's EXIFTOOL_ARGS:
// JSON output, struct fields kept nested, all tags under their group-0
// prefix, numeric (not human-formatted) values, GPS as signed decimal
// degrees with six fractional digits.
var exiftoolArgs = []string{"-json", "-struct", "-G0", "-n", "-c", "%.6f"}

// Result is one exiftool outcome for a single source file: either its raw
// tag map, or an error string when the tool could not process that file.
type Result struct {
	SourceFile string
	Fields     map[string]any
	Error      string
}

// ToolNotFoundError is returned when exiftool is absent from PATH — the
// preflight failure spec.md §4.3 requires to be fatal with one actionable
// message.
type ToolNotFoundError struct {
	Err error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("exiftool is required but not found: %v\nInstall it from https://exiftool.org/install.html", e.Err)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// Invoker is the external-tool collaborator MetadataExtractor talks
// through: probe once for a version string, then extract batches.
type Invoker interface {
	Version(ctx context.Context) (string, error)
	ExtractBatch(ctx context.Context, paths []string) ([]Result, error)
	Close() error
}

// SubprocessInvoker runs one exiftool subprocess per batch, exactly as
// photosort/extractor/exiftool.py's ExiftoolRunner does.
type SubprocessInvoker struct {
	binary string
}

func NewSubprocessInvoker(binary string) *SubprocessInvoker {
	if binary == "" {
		binary = "exiftool"
	}
	return &SubprocessInvoker{binary: binary}
}

func (r *SubprocessInvoker) Version(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(r.binary); err != nil {
		return "", &ToolNotFoundError{Err: err}
	}

	out, err := exec.CommandContext(ctx, r.binary, "-ver").Output()
	if err != nil {
		return "", &ToolNotFoundError{Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *SubprocessInvoker) ExtractBatch(ctx context.Context, paths []string) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	args := append(append([]string{}, exiftoolArgs...), paths...)
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// exiftool exits 1 when one or more (but not all) input files failed;
	// that is not a batch-level failure, the per-file result array still
	// carries the successes.
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); !ok || exitErr.ExitCode() > 1 {
			return nil, fmt.Errorf("exiftool batch failed: %w: %s", runErr, stderr.String())
		}
	}

	return parseExiftoolOutput(stdout.Bytes(), paths)
}

func (r *SubprocessInvoker) Close() error { return nil }

func parseExiftoolOutput(stdout []byte, paths []string) ([]Result, error) {
	trimmed := bytes.TrimSpace(stdout)
	var entries []map[string]any
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return errorResultsFor(paths, fmt.Sprintf("JSON parse error: %v", err)), nil
		}
	}

	byPath := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		if sf, ok := e["SourceFile"].(string); ok {
			byPath[sf] = e
		}
	}

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		if fields, ok := byPath[p]; ok {
			results = append(results, Result{SourceFile: p, Fields: fields})
		} else {
			results = append(results, Result{SourceFile: p, Error: "no output from exiftool for this file"})
		}
	}
	return results, nil
}

func errorResultsFor(paths []string, msg string) []Result {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		results = append(results, Result{SourceFile: p, Error: msg})
	}
	return results
}

// PersistentInvoker keeps one exiftool process alive across batches using
// `-stay_open True -@ -`, grounded on the bryanbrunetti-exifupdater
// example's ExifTool wrapper. It avoids paying process-startup cost per
// batch at the expense of holding a long-lived subprocess open for the
// life of a MetadataExtractor run.
type PersistentInvoker struct {
	binary string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

func NewPersistentInvoker(ctx context.Context, binary string) (*PersistentInvoker, error) {
	if binary == "" {
		binary = "exiftool"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, &ToolNotFoundError{Err: err}
	}

	cmd := exec.CommandContext(ctx, binary, "-stay_open", "True", "-@", "-")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	return &PersistentInvoker{binary: binary, cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

func (p *PersistentInvoker) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, p.binary, "-ver").Output()
	if err != nil {
		return "", &ToolNotFoundError{Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *PersistentInvoker) ExtractBatch(ctx context.Context, paths []string) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	for _, arg := range exiftoolArgs {
		if _, err := fmt.Fprintln(p.stdin, arg); err != nil {
			return nil, fmt.Errorf("writing exiftool command: %w", err)
		}
	}
	for _, path := range paths {
		if _, err := fmt.Fprintln(p.stdin, path); err != nil {
			return nil, fmt.Errorf("writing exiftool path: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.stdin, "-execute"); err != nil {
		return nil, fmt.Errorf("writing exiftool -execute: %w", err)
	}

	var output bytes.Buffer
	for {
		line, err := p.stdout.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading persistent exiftool output: %w", err)
		}
		if strings.TrimSpace(line) == "{ready}" {
			break
		}
		output.WriteString(line)
	}

	return parseExiftoolOutput(output.Bytes(), paths)
}

func (p *PersistentInvoker) Close() error {
	fmt.Fprintln(p.stdin, "-stay_open")
	fmt.Fprintln(p.stdin, "False")
	p.stdin.Close()
	return p.cmd.Wait()
}

// withBatchDeadline bounds a single ExtractBatch call, per spec.md §5's
// per-batch timeout requirement.
func withBatchDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
