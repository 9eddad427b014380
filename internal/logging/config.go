package logging

import (
	"io"
	"os"
	"strings"
)

// Config selects the level, rendering and destination of a Logger. Names
// are case-insensitive. The zero value logs INFO and above as JSON to
// standard error.
type Config struct {
	// Level is one of debug, info, warn (or warning), error and fatal.
	Level string `yaml:"level"`
	// Format is json, or text (alias console).
	Format string `yaml:"format"`
	// Output is stdout, stderr or a file path opened for appending.
	Output string `yaml:"output"`
}

var levelNames = map[string]LogLevel{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
	"fatal":   FatalLevel,
}

var formatNames = map[string]Format{
	"json":    JSONFormat,
	"text":    TextFormat,
	"console": TextFormat,
}

// NewLogger builds a Logger from cfg. A nil cfg is the zero Config.
// Unrecognised level and format names fall back to INFO and JSON; only an
// output file that cannot be opened is an error.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	out, err := cfg.writer()
	if err != nil {
		return nil, err
	}
	return NewWithFormat(cfg.level(), cfg.format(), out), nil
}

func parseLevel(name string) (LogLevel, bool) {
	level, ok := levelNames[strings.ToLower(name)]
	return level, ok
}

func (c *Config) level() LogLevel {
	if level, ok := parseLevel(c.Level); ok {
		return level
	}
	return InfoLevel
}

func (c *Config) format() Format {
	if format, ok := formatNames[strings.ToLower(c.Format)]; ok {
		return format
	}
	return JSONFormat
}

func (c *Config) writer() (io.Writer, error) {
	switch strings.ToLower(c.Output) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}
	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}
