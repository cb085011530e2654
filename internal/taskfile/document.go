// Package taskfile reads task schedules from disk. Three formats are
// understood: a line-oriented grammar, TOML and YAML. All of them decode
// into the same Document, which carries raw declarations in file order;
// duplicate handling and graph checks happen downstream.
package taskfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/critpath/internal/task"
)

// Format names an input format.
type Format string

// Supported formats. FormatAuto picks one from the file extension.
const (
	FormatAuto  Format = ""
	FormatLines Format = "lines"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown task file format")

// ParseFormat converts a user supplied format name. The empty string and
// "auto" select detection by extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "lines", "tasks", "text":
		return FormatLines, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat chooses a format from the extension of path. Anything not
// recognized as TOML or YAML is read with the line grammar.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLines
	}
}

// DurationEntry declares how long a task takes.
type DurationEntry struct {
	Label    task.Label
	Duration task.Duration
	// Line is the 1-based source line, or 0 when the format has no lines.
	Line int
}

// OrderEntry declares either a standalone task (HasBefore false) or that
// Before must finish before Label starts.
type OrderEntry struct {
	Before    task.Label
	Label     task.Label
	HasBefore bool
	Line      int
}

// Document is the decoded content of a task file.
type Document struct {
	Durations []DurationEntry
	Orders    []OrderEntry
}

func (d *Document) declare(name task.Label, dur task.Duration, after []task.Label, line int) {
	d.Durations = append(d.Durations, DurationEntry{Label: name, Duration: dur, Line: line})
	if len(after) == 0 {
		d.Orders = append(d.Orders, OrderEntry{Label: name, Line: line})
		return
	}
	for _, before := range after {
		d.Orders = append(d.Orders, OrderEntry{Before: before, Label: name, HasBefore: true, Line: line})
	}
}

// Parse decodes data in format f. FormatAuto is treated as FormatLines.
func Parse(data []byte, f Format) (*Document, error) {
	switch f {
	case FormatTOML:
		return parseTOML(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatAuto, FormatLines:
		return parseLines(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Load reads and decodes the file at path. With FormatAuto the format is
// detected from the extension. File system errors are returned wrapped so
// that errors.Is works with fs.ErrNotExist and fs.ErrPermission.
func Load(path string, f Format) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f == FormatAuto {
		f = DetectFormat(path)
	}
	return Parse(data, f)
}
