// Package output provides adapters for writing application output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/buildstamp/gitver/internal/domain"
)

// Format selects how version records are rendered.
type Format string

// Supported output formats.
const (
	// FormatJSON renders the full record as indented JSON.
	FormatJSON Format = "json"

	// FormatPlain renders only the version name.
	FormatPlain Format = "plain"

	// FormatProperties renders key=value lines for injection into a
	// build manifest by external tooling.
	FormatProperties Format = "properties"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatPlain, FormatProperties:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected json, plain, or properties)", name)
	}
}

// Writer renders query results to the configured output destination.
// By default, it writes to stdout.
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter(format Format) *Writer {
	return &Writer{out: os.Stdout, format: format}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// WriteRecord renders a VersionRecord in the configured format.
func (w *Writer) WriteRecord(record *domain.VersionRecord) error {
	switch w.format {
	case FormatPlain:
		_, err := fmt.Fprintln(w.out, record.VersionName)
		return err
	case FormatProperties:
		return w.writeProperties(record)
	default:
		encoder := json.NewEncoder(w.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	}
}

// WriteTags renders an ordered list of tag names, one per line.
func (w *Writer) WriteTags(names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w.out, name); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeProperties(record *domain.VersionRecord) error {
	properties := []struct {
		key   string
		value string
	}{
		{"git.branch", record.Branch},
		{"git.commit", record.Commit},
		{"git.commit.abbreviated", record.Abbreviated},
		{"git.tag", record.Tag},
		{"git.dirty", strconv.FormatBool(record.Dirty)},
		{"git.shallow", strconv.FormatBool(record.Shallow)},
		{"version.name", record.VersionName},
		{"version.code", record.VersionCode},
	}
	for _, p := range properties {
		if _, err := fmt.Fprintf(w.out, "%s=%s\n", p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}
