package taskfile

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"unicode"

	"github.com/papapumpkin/critpath/internal/task"
)

// parseLines reads the line grammar:
//
//	# comment
//	A(2)
//	B(3) after A, C
func parseLines(data []byte) (*Document, error) {
	doc := &Document{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := parseLine(doc, []rune(sc.Text()), lineNo); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &SyntaxError{Line: lineNo + 1, Msg: "reading input", Err: err}
	}
	return doc, nil
}

// lineScanner walks one line. pos indexes runes, so columns are pos+1.
type lineScanner struct {
	src  []rune
	pos  int
	line int
}

func (s *lineScanner) errorf(format string, args ...any) error {
	return &SyntaxError{Line: s.line, Column: s.pos + 1, Msg: fmt.Sprintf(format, args...)}
}

func (s *lineScanner) skipSpace() {
	for s.pos < len(s.src) && unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *lineScanner) done() bool {
	return s.pos >= len(s.src) || s.src[s.pos] == '#'
}

func (s *lineScanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *lineScanner) describe() string {
	if s.done() {
		return "end of line"
	}
	return strconv.QuoteRune(s.src[s.pos])
}

func (s *lineScanner) expect(r rune) error {
	s.skipSpace()
	if s.peek() != r || s.done() {
		return s.errorf("expected %q, found %s", r, s.describe())
	}
	s.pos++
	return nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'
}

func (s *lineScanner) name() (task.Label, error) {
	s.skipSpace()
	start := s.pos
	if s.done() || !unicode.IsLetter(s.src[s.pos]) {
		return task.Label{}, s.errorf("expected task name, found %s", s.describe())
	}
	for s.pos < len(s.src) && isNameRune(s.src[s.pos]) {
		s.pos++
	}
	l, err := task.NewLabel(string(s.src[start:s.pos]))
	if err != nil {
		s.pos = start
		return task.Label{}, &SyntaxError{Line: s.line, Column: start + 1, Msg: err.Error(), Err: err}
	}
	return l, nil
}

func (s *lineScanner) duration() (task.Duration, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	if start == s.pos {
		return 0, s.errorf("expected duration, found %s", s.describe())
	}
	digits := string(s.src[start:s.pos])
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		s.pos = start
		return 0, s.errorf("duration %s is out of range 0-65535", digits)
	}
	return task.Duration(n), nil
}

// keyword consumes word if it is the next token and is not the prefix of
// a longer name.
func (s *lineScanner) keyword(word string) bool {
	w := []rune(word)
	end := s.pos + len(w)
	if end > len(s.src) || string(s.src[s.pos:end]) != word {
		return false
	}
	if end < len(s.src) && isNameRune(s.src[end]) {
		return false
	}
	s.pos = end
	return true
}

func parseLine(doc *Document, src []rune, lineNo int) error {
	s := &lineScanner{src: src, line: lineNo}
	s.skipSpace()
	if s.done() {
		return nil
	}

	name, err := s.name()
	if err != nil {
		return err
	}
	if err := s.expect('('); err != nil {
		return err
	}
	dur, err := s.duration()
	if err != nil {
		return err
	}
	if err := s.expect(')'); err != nil {
		return err
	}

	var after []task.Label
	s.skipSpace()
	if !s.done() {
		if !s.keyword("after") {
			return s.errorf("expected \"after\" or end of line, found %s", s.describe())
		}
		for {
			before, err := s.name()
			if err != nil {
				return err
			}
			after = append(after, before)
			s.skipSpace()
			if s.peek() != ',' || s.done() {
				break
			}
			s.pos++
		}
		if !s.done() {
			return s.errorf("expected ',' or end of line, found %s", s.describe())
		}
	}

	doc.declare(name, dur, after, lineNo)
	return nil
}
