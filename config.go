// FILE: config.go
package asynclog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/asynclog/formatter"
	"github.com/lixenwraith/asynclog/sanitizer"
	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values
type Config struct {
	// Filtering and draining
	Level           int64 `toml:"level"`             // Minimum level accepted by Log
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Delay between drain passes, 0 drains back-to-back

	// Output
	Destination     string `toml:"destination"`      // Initial destination file, empty for console
	ConsoleTarget   string `toml:"console_target"`   // Fallback stream: "stdout" or "stderr"
	Format          string `toml:"format"`           // "txt" or "json"
	TimestampFormat string `toml:"timestamp_format"` // Go time layout for rendered timestamps
	Sanitization    string `toml:"sanitization"`     // Message policy for txt: "raw", "txt" or "json"

	// Heartbeat
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // Stats record interval, 0 disables

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Report warnings and failures on the diagnostics channel
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:           LevelInfo,
	FlushIntervalMs: 2000,

	Destination:     "",
	ConsoleTarget:   "stdout",
	Format:          formatter.FormatTxt,
	TimestampFormat: formatter.DefaultTimestampFormat,
	Sanitization:    string(sanitizer.PolicyTxt),

	HeartbeatIntervalS: 0,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the [log] table of a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies values found by the loader into cfg, keyed by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate checks every field, returning a *ConfigurationError for the first problem
func (c *Config) validate() error {
	if !validLevel(c.Level) {
		return newConfigError("level", c.Level, "must be between %d (trace) and %d (error)", LevelTrace, LevelError)
	}

	if c.FlushIntervalMs < 0 {
		return newConfigError("flush_interval_ms", c.FlushIntervalMs, "cannot be negative")
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return newConfigError("console_target", c.ConsoleTarget, "use stdout or stderr")
	}

	if !formatter.ValidFormat(c.Format) {
		return newConfigError("format", c.Format, "use txt or json")
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return newConfigError("timestamp_format", c.TimestampFormat, "cannot be empty")
	}

	if !sanitizer.Valid(c.Sanitization) {
		return newConfigError("sanitization", c.Sanitization, "use raw, txt or json")
	}

	if c.HeartbeatIntervalS < 0 {
		return newConfigError("heartbeat_interval_s", c.HeartbeatIntervalS, "cannot be negative")
	}

	return nil
}

// Validate exposes validate for callers assembling a Config by hand
func (c *Config) Validate() error {
	return c.validate()
}

// FlushInterval returns the drain interval as a duration
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
