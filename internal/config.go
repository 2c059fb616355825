package internal

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Config holds the tunable settings of the runtime.
type Config struct {
	// Locale selects the language of the Name and Parent pseudo-property
	// identifiers, as a BCP 47 tag.
	Locale string `yaml:"locale"`
	// DumpDepth is the object nesting depth after which Dump stops.
	DumpDepth int `yaml:"dump_depth"`
	// DateFormat is the strftime format used to convert dates to strings.
	DateFormat string `yaml:"date_format"`
	// LogLevel is the minimum level of the default logger: debug, info,
	// warn, or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings the runtime uses when Configure is never
// called.
func DefaultConfig() Config {
	return Config{
		Locale:     "en",
		DumpDepth:  10,
		DateFormat: "%Y-%m-%d %H:%M:%S",
		LogLevel:   "warn",
	}
}

// ParseConfig reads a YAML configuration. Settings absent from the document
// keep their defaults.
func ParseConfig(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("sbx: reading config: %w", err)
	}
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return Config{}, fmt.Errorf("sbx: parsing config: %w", err)
	}
	return c, nil
}

var settings = struct {
	sync.Mutex
	dumpDepth  int
	dateFormat string
}{
	dumpDepth:  10,
	dateFormat: "%Y-%m-%d %H:%M:%S",
}

// Configure applies a configuration. The locale can only be applied before
// the name table is first used.
func Configure(c Config) error {
	if c.DumpDepth <= 0 {
		return fmt.Errorf("sbx: dump depth must be positive, not %d", c.DumpDepth)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("sbx: bad log level %q: %w", c.LogLevel, err)
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return fmt.Errorf("sbx: bad locale %q: %w", c.Locale, err)
	}
	if err := InitNames(tag); err != nil {
		return err
	}
	settings.Lock()
	settings.dumpDepth = c.DumpDepth
	if c.DateFormat != "" {
		settings.dateFormat = c.DateFormat
	}
	settings.Unlock()
	logLevel.Set(lvl)
	return nil
}

func dumpDepth() int {
	settings.Lock()
	defer settings.Unlock()
	return settings.dumpDepth
}

func dateFormat() string {
	settings.Lock()
	defer settings.Unlock()
	return settings.dateFormat
}
