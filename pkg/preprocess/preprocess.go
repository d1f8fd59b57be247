package preprocess

import (
	"errors"
	"regexp"
	"strings"

	eris "github.com/rotisserie/eris"

	dedent "github.com/jurooravec/dedent/pkg/dedent"
)

var (
	leadingBlankLines  = regexp.MustCompile(`^(?:[ \t\r]*\n)+`)
	trailingBlankLines = regexp.MustCompile(`(?:\n[ \t\r]*)+$`)
)

type Options struct {
	// Optionally replace tabs with spaces before dedenting, since only
	// spaces count as indentation.
	TabSize *int
}

// Remove leading/trailing empty lines
func TrimTemplate(tmpl string) string {
	tmpl = leadingBlankLines.ReplaceAllLiteralString(tmpl, "")
	return trailingBlankLines.ReplaceAllLiteralString(tmpl, "")
}

func ExpandTabs(tmpl string, tabSize int) string {
	return strings.ReplaceAll(tmpl, "\t", strings.Repeat(" ", tabSize))
}

// Unindent removes the common indentation of all non-blank lines. Blank lines
// before the first one are removed, and so is the whitespace-only line that
// usually closes an indented literal.
//
// Empty input is returned as is.
func Unindent(input string) (string, error) {
	// A blank first line would otherwise seed the indentation with its own width.
	body := leadingBlankLines.ReplaceAllLiteralString(input, "")
	out, err := dedent.Dedenter{DropClosingLine: true, KeepQuotes: true}.Dedent(body)
	if errors.Is(err, dedent.ErrEmptyInput) {
		return input, nil
	}
	if err != nil {
		return input, eris.Wrap(err, "failed to unindent template")
	}
	return out, nil
}

// Normalize prepares a template written inline in Go code: it shaves off the
// blank lines around it, expands tabs if asked to, and unindents it.
func Normalize(tmpl string, opts Options) (string, error) {
	tmpl = TrimTemplate(tmpl)

	if opts.TabSize != nil {
		if *opts.TabSize < 0 {
			return tmpl, eris.Errorf("tab size must not be negative, got %d", *opts.TabSize)
		}
		tmpl = ExpandTabs(tmpl, *opts.TabSize)
	}

	return Unindent(tmpl)
}
