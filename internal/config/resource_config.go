package config

// ResourceConfig defines thresholds for the resource guard that gates
// the headless browser fallback.
type ResourceConfig struct {
	MaxMemoryMB int64 `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=64"`
	// SystemMemFraction is the system memory usage ratio above which the
	// browser fallback is refused.
	SystemMemFraction float64 `json:"system_mem_fraction,omitempty" yaml:"system_mem_fraction,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// NewDefaultResourceConfig creates default resource guard configuration.
func NewDefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		MaxMemoryMB:       DefaultResourceMaxMemoryMB,
		SystemMemFraction: DefaultResourceSystemMemFraction,
	}
}
