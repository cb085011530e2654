// Package task defines the value types shared by the parser, the normalizer
// and the analysis engine: validated task labels, durations and precedence
// orders between tasks.
package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLen is the maximum number of characters (runes) in a label.
const MaxLabelLen = 70

// ErrInvalidLabel is returned when a string cannot be used as a task label.
var ErrInvalidLabel = errors.New("invalid label")

// Duration is the execution time of a single task.
type Duration uint16

// TotalDuration accumulates durations along a path. It is wider than
// Duration so that long chains cannot overflow.
type TotalDuration uint32

// Label identifies a task. The zero Label is not valid; obtain labels
// through NewLabel.
type Label struct {
	name string
}

// NewLabel validates s and returns it as a Label. Empty strings, strings
// containing whitespace and strings longer than MaxLabelLen runes are
// rejected with an error wrapping ErrInvalidLabel.
func NewLabel(s string) (Label, error) {
	switch {
	case s == "":
		return Label{}, fmt.Errorf("%w: empty strings cannot be labels", ErrInvalidLabel)
	case utf8.RuneCountInString(s) > MaxLabelLen:
		return Label{}, fmt.Errorf("%w: labels cannot have more than %d characters: %s",
			ErrInvalidLabel, MaxLabelLen, s)
	case strings.ContainsFunc(s, unicode.IsSpace):
		return Label{}, fmt.Errorf("%w: labels cannot have whitespace characters: %q", ErrInvalidLabel, s)
	}
	return Label{name: s}, nil
}

// MustLabel is like NewLabel but panics on invalid input. It is meant for
// tests and static tables.
func MustLabel(s string) Label {
	l, err := NewLabel(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the label text.
func (l Label) String() string {
	return l.name
}

// Len returns the label length in runes.
func (l Label) Len() int {
	return utf8.RuneCountInString(l.name)
}

// Compare orders labels by their text.
func (l Label) Compare(other Label) int {
	return strings.Compare(l.name, other.name)
}

// MarshalText implements encoding.TextMarshaler so labels encode as plain
// strings in JSON and YAML output.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.name), nil
}

// SortLabels sorts labels in place by text.
func SortLabels(labels []Label) {
	slices.SortFunc(labels, Label.Compare)
}

// Strings converts labels to their text form.
func Strings(labels []Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.name
	}
	return out
}
