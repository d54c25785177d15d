// Package tgfmt tokenizes the whitespace separated text files used by
// TetGen (.node, .ele, .face, .smesh) and OFF surfaces.
package tgfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxPrealloc bounds the capacity reserved up front for a count declared in
// a file header. Longer lists grow as they are read.
const MaxPrealloc = 1 << 16

// Capacity returns the capacity to reserve for a declared count n >= 0.
func Capacity(n int) int { return min(n, MaxPrealloc) }

// Scanner yields the fields of the non-empty lines of a file. Everything
// after a '#' is a comment.
type Scanner struct {
	s    *bufio.Scanner
	line int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &Scanner{s: s}
}

// Line returns the number of the line last returned by Next.
func (sc *Scanner) Line() int { return sc.line }

// Next returns the fields of the next line that has any. It returns
// io.ErrUnexpectedEOF when the input ends.
func (sc *Scanner) Next() ([]string, error) {
	for sc.s.Scan() {
		sc.line++
		text := sc.s.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := sc.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// Done returns an error if any non-comment content is left.
func (sc *Scanner) Done() error {
	fields, err := sc.Next()
	if err == io.ErrUnexpectedEOF {
		return nil
	}
	if err != nil {
		return err
	}
	return sc.Errorf("unexpected trailing content %q", strings.Join(fields, " "))
}

// Errorf returns an error prefixed with the current line number.
func (sc *Scanner) Errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", sc.line, fmt.Sprintf(format, args...))
}

// Ints parses the first n fields as integers. It fails if fewer are present.
func (sc *Scanner) Ints(fields []string, n int) ([]int, error) {
	if len(fields) < n {
		return nil, sc.Errorf("want %d integers, got %d fields", n, len(fields))
	}
	out := make([]int, n)
	for i := range out {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, sc.Errorf("%v", err)
		}
		out[i] = v
	}
	return out, nil
}

// Floats parses the first n fields as float64. It fails if fewer are present.
func (sc *Scanner) Floats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, sc.Errorf("want %d numbers, got %d fields", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, sc.Errorf("%v", err)
		}
		out[i] = v
	}
	return out, nil
}

// Count parses the first field as the number of elements of a section. The
// count must not be negative.
func (sc *Scanner) Count(fields []string, what string) (int, error) {
	n, err := sc.Ints(fields, 1)
	if err != nil {
		return 0, err
	}
	if n[0] < 0 {
		return 0, sc.Errorf("negative %s count %d", what, n[0])
	}
	return n[0], nil
}
