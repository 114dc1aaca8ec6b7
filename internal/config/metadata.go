package config

// MetadataConfig configures the MetadataExtractor stage, including the
// breaker/backoff protection wrapped around the external exiftool process.
type MetadataConfig struct {
	Strategy   string `mapstructure:"strategy"    yaml:"strategy"`
	BatchSize  int    `mapstructure:"batch_size"  yaml:"batch_size"`
	Limit      int    `mapstructure:"limit"       yaml:"limit"`
	ExecPath   string `mapstructure:"exec_path"   yaml:"exec_path"`
	Daemon     bool   `mapstructure:"daemon"      yaml:"daemon"`

	MinFileSizeBytes int64 `mapstructure:"min_file_size_bytes" yaml:"min_file_size_bytes"`

	// BatchTimeoutSeconds bounds a single exiftool invocation; exceeding it
	// triggers one retry and then a drop to single-file fallback.
	BatchTimeoutSeconds int `mapstructure:"batch_timeout_seconds" yaml:"batch_timeout_seconds"`

	// BreakerConsecutiveFailures is the number of consecutive whole-batch
	// failures that opens the circuit breaker guarding the subprocess.
	BreakerConsecutiveFailures uint32 `mapstructure:"breaker_consecutive_failures" yaml:"breaker_consecutive_failures"`
	BreakerOpenSeconds         int    `mapstructure:"breaker_open_seconds"         yaml:"breaker_open_seconds"`
}
