package logger

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/config"
)

// ConfigConverter converts config.LogConfig into the internal LoggerConfig.
type ConfigConverter struct{}

// NewConfigConverter creates a new config converter
func NewConfigConverter() *ConfigConverter {
	return &ConfigConverter{}
}

// ConvertConfig maps the user-facing log configuration onto LoggerConfig.
// Unknown levels and formats fall back to the defaults rather than failing.
func (cc *ConfigConverter) ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	result := DefaultLoggerConfig()

	if cfg.LogLevel != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
			result.Level = level
		}
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		result.Format = FormatJSON
	case "text":
		result.Format = FormatText
	case "console", "":
		result.Format = FormatConsole
	}

	if cfg.LogFile != "" {
		result.EnableFile = true
		result.FilePath = cfg.LogFile
	}
	if cfg.MaxLogSizeMB > 0 {
		result.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		result.MaxBackups = cfg.MaxLogBackups
	}

	return result, nil
}
