package config

// PathDateConfig configures the PathDateExtractor stage.
type PathDateConfig struct {
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}
