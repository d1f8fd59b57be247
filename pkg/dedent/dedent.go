// Package dedent removes the common leading-space prefix from a block of text,
// so that a multi-line literal indented to match the surrounding code reads as
// if it had been written at column zero.
//
//	var query = dedent.MustDedent(`
//	    SELECT *
//	      FROM users
//	`)
//
// yields "SELECT *\n  FROM users\n".
package dedent

import (
	"fmt"
	"strings"
	"unicode"

	eris "github.com/rotisserie/eris"
)

var (
	ErrEmptyInput = eris.New("cannot dedent text without any lines")
)

// Line is a single line of the input, without its line break.
type Line struct {
	Text              string
	LeadingSpaceCount int
}

func newLine(text string) Line {
	return Line{Text: text, LeadingSpaceCount: countLeadingSpaces(text)}
}

// Document is the result of parsing raw text: the lines in their original
// order and the indentation that will be removed from each of them.
type Document struct {
	Lines     []Line
	MinIndent int
}

// String strips MinIndent spaces from every line and joins the lines back
// together. Lines with fewer leading spaces lose only the ones they have.
func (d Document) String() string {
	out := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		out[i] = line.Text[min(line.LeadingSpaceCount, d.MinIndent):]
	}
	return strings.Join(out, "\n")
}

// Dedenter configures how text is dedented. The zero value is ready to use.
type Dedenter struct {
	// If true, a whitespace-only last line is removed entirely instead of
	// being emptied, so the result does not end with a line break.
	DropClosingLine bool
	// If true, double quotes at either end of the input are kept as content
	// instead of being stripped as literal delimiters.
	KeepQuotes bool
}

// Parse splits raw into lines and computes the indentation to remove.
//
// The first line always seeds the minimum, even when it is blank. Every other
// line lowers it only if it has non-whitespace content.
func (d Dedenter) Parse(raw string) (Document, error) {
	body := trimFraming(raw, d.KeepQuotes)
	if body == "" {
		return Document{}, ErrEmptyInput
	}

	var doc Document
	for i, text := range strings.Split(body, "\n") {
		line := newLine(strings.TrimSuffix(text, "\r"))
		switch {
		case i == 0:
			doc.MinIndent = line.LeadingSpaceCount
		case !isBlank(line.Text) && line.LeadingSpaceCount < doc.MinIndent:
			doc.MinIndent = line.LeadingSpaceCount
		}
		doc.Lines = append(doc.Lines, line)
	}

	// The closing delimiter's line must not leave indentation behind.
	last := len(doc.Lines) - 1
	if isBlank(doc.Lines[last].Text) {
		if d.DropClosingLine && last > 0 {
			doc.Lines = doc.Lines[:last]
		} else {
			doc.Lines[last] = newLine("")
		}
	}

	return doc, nil
}

// Dedent removes the common indentation from raw.
func (d Dedenter) Dedent(raw string) (string, error) {
	doc, err := d.Parse(raw)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// Parse is Dedenter.Parse with default settings.
func Parse(raw string) (Document, error) {
	return Dedenter{}.Parse(raw)
}

// Dedent is Dedenter.Dedent with default settings.
func Dedent(raw string) (string, error) {
	return Dedenter{}.Dedent(raw)
}

// MustDedent is like Dedent but panics on error. It is meant for
// package-level variables holding text literals.
func MustDedent(raw string) string {
	out, err := Dedent(raw)
	if err != nil {
		panic(eris.Wrapf(err, "failed to dedent %q", raw))
	}
	return out
}

// Dedentf formats according to a format specifier and dedents the result.
func Dedentf(format string, args ...any) (string, error) {
	return Dedent(fmt.Sprintf(format, args...))
}

// Strip a single quote on each end, then a single leading line break.
func trimFraming(raw string, keepQuotes bool) string {
	s := raw
	if !keepQuotes {
		s = strings.TrimPrefix(s, `"`)
		s = strings.TrimSuffix(s, `"`)
	}
	if rest, ok := strings.CutPrefix(s, "\r\n"); ok {
		return rest
	}
	return strings.TrimPrefix(s, "\n")
}

func countLeadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) == -1
}
