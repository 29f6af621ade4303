package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Supported graph formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatFromPath maps a file extension to a graph format.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported graph file extension %q", ext)
	}
}

// =============================================================================
// Reading
// =============================================================================

// ReadFile reads and validates a graph file. The format follows the extension.
func ReadFile(path string) (Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph %s", path)
		}
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes and validates a graph in the given format. Keys the model
// does not know are ignored in every format.
// Read does not close r.
func Read(r io.Reader, format string) (Graph, error) {
	var g Graph
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	default:
		return Graph{}, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Unmarshal decodes a graph from bytes. See [Read].
func Unmarshal(data []byte, format string) (Graph, error) {
	return Read(bytes.NewReader(data), format)
}

// =============================================================================
// Writing
// =============================================================================

// Write encodes g in the given format.
func Write(g Graph, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	return l, nil
}
