// Package output serializes extraction results to their artifact files.
package output

import (
	"fmt"
	"io"
)

// Format represents output format types.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Writer serializes one record per artifact.
type Writer interface {
	// Write serializes data to the underlying stream.
	Write(data any) error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(w, true, "  "), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Extension returns the artifact file extension for a format.
func Extension(format Format) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}
