package scanner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DriveUUIDOracle resolves the UUID of the drive backing a mount point, so a
// ScanSession can be tied to the physical volume it ran against rather than
// just a path (which a future scan of a different drive could reuse).
type DriveUUIDOracle interface {
	UUID(ctx context.Context, mountPoint string) (string, error)
}

// FindmntDriveUUIDOracle shells out to findmnt and lsblk, exactly as
// photosort/scanner/uuid.py does: findmnt resolves the path to its backing
// device, lsblk resolves the device to its UUID.
type FindmntDriveUUIDOracle struct{}

func NewFindmntDriveUUIDOracle() *FindmntDriveUUIDOracle {
	return &FindmntDriveUUIDOracle{}
}

func (o *FindmntDriveUUIDOracle) UUID(ctx context.Context, mountPoint string) (string, error) {
	device, err := o.deviceForMount(ctx, mountPoint)
	if err != nil {
		return "", err
	}
	return o.uuidForDevice(ctx, device)
}

func (o *FindmntDriveUUIDOracle) deviceForMount(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, "findmnt", "-n", "-o", "SOURCE", "-T", path).Output()
	if err != nil {
		return "", fmt.Errorf("could not find mount point for path %s: %w", path, err)
	}

	device := strings.TrimSpace(string(out))
	if device == "" {
		return "", fmt.Errorf("no device found for path: %s", path)
	}
	return device, nil
}

func (o *FindmntDriveUUIDOracle) uuidForDevice(ctx context.Context, device string) (string, error) {
	out, err := exec.CommandContext(ctx, "lsblk", "-n", "-o", "UUID", device).Output()
	if err != nil {
		return "", fmt.Errorf("could not get UUID for device %s: %w", device, err)
	}

	uuid := strings.TrimSpace(string(out))
	if uuid == "" {
		return "", fmt.Errorf("no UUID found for device %s (network share or virtual filesystem?)", device)
	}
	return uuid, nil
}
