package dag

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/papapumpkin/critpath/internal/task"
)

// DefaultDelimiter separates tasks in rendered paths.
const DefaultDelimiter = "->"

// WrapPath packs labels into lines no wider than maxLabelLen plus the
// delimiter length. Every label is budgeted with a trailing delimiter even
// when it ends the path, so lines can stay shorter than the cap. A label
// that does not fit an empty line gets a line of its own.
func WrapPath(path []task.Label, delimiter string, maxLabelLen int) []string {
	delimLen := utf8.RuneCountInString(delimiter)
	maxLineLen := maxLabelLen + delimLen

	var (
		lines    []string
		line     strings.Builder
		buffered int
	)
	for i, l := range path {
		required := l.Len() + delimLen
		if buffered > 0 && buffered+required > maxLineLen {
			lines = append(lines, line.String())
			line.Reset()
			buffered = 0
		}
		line.WriteString(l.String())
		if i != len(path)-1 {
			line.WriteString(delimiter)
		}
		buffered += required
	}
	return append(lines, line.String())
}

// WritePath writes the wrapped lines of path to w, one per line.
func WritePath(w io.Writer, path []task.Label, delimiter string, maxLabelLen int) error {
	for _, line := range WrapPath(path, delimiter, maxLabelLen) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
