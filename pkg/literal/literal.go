// Package literal extracts text from Go string-literal syntax, so that a
// literal copied out of source code can be fed to the dedenter as-is.
package literal

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	eris "github.com/rotisserie/eris"
)

var (
	ErrMissingArgument  = eris.New("expected a string literal but found nothing")
	ErrNotStringLiteral = eris.New("expected a string literal")
)

// Value returns the text of a string literal.
//
// src is either a literal on its own, or a call whose first argument is the
// literal, e.g.
//
//	dedent.MustDedent(`
//	    hello
//	`)
//
// Interpreted literals have their escapes resolved. Raw literals keep
// backslashes verbatim.
func Value(src string) (string, error) {
	lit, err := find(src)
	if err != nil {
		return "", err
	}

	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", eris.Wrapf(err, "failed to unquote literal %s", lit.Value)
	}
	return value, nil
}

// IsRaw reports whether src is, or starts with a call on, a raw (backtick)
// string literal.
func IsRaw(src string) bool {
	lit, err := find(src)
	if err != nil {
		return false
	}
	return strings.HasPrefix(lit.Value, "`")
}

func find(src string) (*ast.BasicLit, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrMissingArgument
	}

	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse literal")
	}

	if call, ok := expr.(*ast.CallExpr); ok {
		if len(call.Args) == 0 {
			return nil, ErrMissingArgument
		}
		expr = call.Args[0]
	}

	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, eris.Wrapf(ErrNotStringLiteral, "found %T", expr)
	}
	return lit, nil
}
