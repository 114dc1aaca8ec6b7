package config

// PlannerConfig holds the thresholds that decide whether a folder's images
// carry enough date consensus to resolve to a single day, grounded on
// photosort/planner/resolver.py's PlannerConfig defaults.
type PlannerConfig struct {
	MinCoverageThreshold  float64 `mapstructure:"min_coverage_threshold"  yaml:"min_coverage_threshold"`
	MinPrevalenceThreshold float64 `mapstructure:"min_prevalence_threshold" yaml:"min_prevalence_threshold"`
	MaxDateSpanMonths     int     `mapstructure:"max_date_span_months"    yaml:"max_date_span_months"`
}
