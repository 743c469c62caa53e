package resources

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/schemaforge/schemaforge/internal/config"
)

// Guard checks memory pressure before expensive operations. The headless
// browser fallback consults it so a loaded host degrades to a classified
// fetch error instead of an OOM kill.
type Guard struct {
	cfg    config.ResourceConfig
	logger zerolog.Logger
}

// Usage is a point-in-time resource snapshot for logging.
type Usage struct {
	AllocMB        int64
	SysUsedPercent float64
	Goroutines     int
}

// NewGuard creates a resource guard.
func NewGuard(cfg config.ResourceConfig, logger zerolog.Logger) *Guard {
	if cfg.MaxMemoryMB == 0 {
		cfg.MaxMemoryMB = config.DefaultResourceMaxMemoryMB
	}
	if cfg.SystemMemFraction == 0 {
		cfg.SystemMemFraction = config.DefaultResourceSystemMemFraction
	}
	return &Guard{
		cfg:    cfg,
		logger: logger.With().Str("component", "ResourceGuard").Logger(),
	}
}

// CheckMemoryLimit checks if current process memory usage exceeds the limit.
func (g *Guard) CheckMemoryLimit() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	if currentMB > g.cfg.MaxMemoryMB {
		return fmt.Errorf("memory limit exceeded: current %dMB > limit %dMB", currentMB, g.cfg.MaxMemoryMB)
	}
	return nil
}

// CheckSystemPressure checks system-wide memory usage against the
// configured fraction. A gopsutil read failure is treated as no pressure.
func (g *Guard) CheckSystemPressure() error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		g.logger.Debug().Err(err).Msg("Could not read system memory, skipping pressure check")
		return nil
	}

	if vm.UsedPercent/100 > g.cfg.SystemMemFraction {
		return fmt.Errorf("system memory pressure: %.1f%% used > %.0f%% threshold",
			vm.UsedPercent, g.cfg.SystemMemFraction*100)
	}
	return nil
}

// Snapshot returns current usage figures for diagnostics.
func (g *Guard) Snapshot() Usage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := Usage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SysUsedPercent = vm.UsedPercent
	}
	return usage
}
