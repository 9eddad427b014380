package hypervolume

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", invalidArgument("cannot infer configuration format from %q", path).
		WithComponent("calculator").WithOperation("FormatFromPath")
}

// SaveConfig writes the calculator's flags and approximation parameters.
// The random source and logger are not persisted.
func (c *Calculator) SaveConfig(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	}
	return unknownFormat(format, "SaveConfig")
}

// LoadConfig reads settings written by SaveConfig into c. Fields absent
// from the input keep their current values.
func (c *Calculator) LoadConfig(r io.Reader, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(c)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(c)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(c)
	default:
		return unknownFormat(format, "LoadConfig")
	}
	if err != nil {
		return fmt.Errorf("decode %s calculator config: %w", format, err)
	}
	return nil
}

// LoadConfigFile loads settings from path, choosing the format by extension.
func (c *Calculator) LoadConfigFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.LoadConfig(f, format)
}

// SaveConfigFile writes settings to path, choosing the format by extension.
func (c *Calculator) SaveConfigFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.SaveConfig(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func unknownFormat(format Format, op string) error {
	return invalidArgument("unknown configuration format %q", format).
		WithComponent("calculator").WithOperation(op)
}
