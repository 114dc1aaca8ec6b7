package config

import "github.com/spf13/viper"

// Default returns the built-in configuration, used both to seed viper
// defaults and to render `photosort config generate` templates.
func Default() Config {
	return Config{
		ShutdownTimeout: "10s",

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Database: DatabaseConfig{
			Path: "./data/catalog.db",
		},

		Scanner: ScannerConfig{
			ProgressInterval: 1000,
			MaxPathLength:    4096,
			StatRetryCount:   1,
		},

		PathDate: PathDateConfig{
			BatchSize: 1000,
		},

		Metadata: MetadataConfig{
			Strategy:                   "selective",
			BatchSize:                  100,
			Limit:                      0,
			ExecPath:                   "exiftool",
			Daemon:                     false,
			MinFileSizeBytes:           10 * 1024,
			BatchTimeoutSeconds:        120,
			BreakerConsecutiveFailures: 3,
			BreakerOpenSeconds:         60,
		},

		Planner: PlannerConfig{
			MinCoverageThreshold:   0.30,
			MinPrevalenceThreshold: 0.80,
			MaxDateSpanMonths:      3,
		},

		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9090",
		},
	}
}

func setDefaults() {
	d := Default()

	viper.SetDefault("shutdown_timeout", d.ShutdownTimeout)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.time_format", d.Log.TimeFormat)
	viper.SetDefault("log.file", d.Log.File)
	viper.SetDefault("log.no_color", d.Log.NoColor)
	viper.SetDefault("log.json", d.Log.JSON)
	viper.SetDefault("log.no_terminal", d.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", d.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", d.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", d.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", d.Log.Rotation.Compress)

	viper.SetDefault("database.path", d.Database.Path)

	viper.SetDefault("scanner.progress_interval", d.Scanner.ProgressInterval)
	viper.SetDefault("scanner.max_path_length", d.Scanner.MaxPathLength)
	viper.SetDefault("scanner.stat_retry_count", d.Scanner.StatRetryCount)

	viper.SetDefault("path_date.batch_size", d.PathDate.BatchSize)

	viper.SetDefault("metadata.strategy", d.Metadata.Strategy)
	viper.SetDefault("metadata.batch_size", d.Metadata.BatchSize)
	viper.SetDefault("metadata.limit", d.Metadata.Limit)
	viper.SetDefault("metadata.exec_path", d.Metadata.ExecPath)
	viper.SetDefault("metadata.daemon", d.Metadata.Daemon)
	viper.SetDefault("metadata.min_file_size_bytes", d.Metadata.MinFileSizeBytes)
	viper.SetDefault("metadata.batch_timeout_seconds", d.Metadata.BatchTimeoutSeconds)
	viper.SetDefault("metadata.breaker_consecutive_failures", d.Metadata.BreakerConsecutiveFailures)
	viper.SetDefault("metadata.breaker_open_seconds", d.Metadata.BreakerOpenSeconds)

	viper.SetDefault("planner.min_coverage_threshold", d.Planner.MinCoverageThreshold)
	viper.SetDefault("planner.min_prevalence_threshold", d.Planner.MinPrevalenceThreshold)
	viper.SetDefault("planner.max_date_span_months", d.Planner.MaxDateSpanMonths)

	viper.SetDefault("metrics.enabled", d.Metrics.Enabled)
	viper.SetDefault("metrics.listen_addr", d.Metrics.ListenAddr)
}
