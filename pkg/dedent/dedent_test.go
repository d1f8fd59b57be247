package dedent

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "aligned lines",
			in:   "\n          foo\n          bar\n        ",
			want: "foo\nbar\n",
		},
		{
			name: "indented lines",
			in:   "\n          foo\n            bar\n        ",
			want: "foo\n  bar\n",
		},
		{
			// the whitespace lines are 1 space deeper than bar
			name: "lines full of whitespace",
			in:   "\n          foo\n             \n             \n            bar\n        ",
			want: "foo\n   \n   \n  bar\n",
		},
		{
			name: "backslashes are kept verbatim",
			in:   "\n          foo\n            \\\n        ",
			want: "foo\n  \\\n",
		},
		{
			name: "without framing",
			in:   "  foo\n     \n     \n    bar",
			want: "foo\n   \n   \n  bar",
		},
		{
			name: "single line",
			in:   "   hello",
			want: "hello",
		},
		{
			name: "zero indentation",
			in:   "foo\n  bar",
			want: "foo\n  bar",
		},
		{
			name: "ties and deeper lines keep the minimum",
			in:   "    a\n  b\n    c\n  d",
			want: "  a\nb\n  c\nd",
		},
		{
			name: "only whitespace",
			in:   "   ",
			want: "",
		},
		{
			name: "surrounding quotes",
			in:   "\"\n    foo\n\"",
			want: "foo\n",
		},
		{
			name: "crlf line breaks",
			in:   "\r\n    foo\r\n      bar\r\n    ",
			want: "foo\n  bar\n",
		},
		{
			name: "tabs are not indentation",
			in:   "\t  foo\n  bar",
			want: "\t  foo\n  bar",
		},
		{
			name: "only one leading line break is framing",
			in:   "\n\n    foo\n    bar",
			want: "\n    foo\n    bar",
		},
		{
			name: "blank first line deeper than content",
			in:   "\n        \n  foo",
			want: "      \nfoo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dedent(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDedentEmptyInput(t *testing.T) {
	assert := assert.New(t)

	for _, in := range []string{"", "\n", `""`, "\"\n\""} {
		_, err := Dedent(in)
		assert.ErrorIs(err, ErrEmptyInput, "input %q", in)
	}
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	doc, err := Parse(`
          foo
            bar
        `)
	assert.NoError(err)

	assert.Equal(10, doc.MinIndent)
	assert.Len(doc.Lines, 3)
	assert.Equal(10, doc.Lines[0].LeadingSpaceCount)
	assert.Equal(12, doc.Lines[1].LeadingSpaceCount)
	assert.Equal(Line{Text: "", LeadingSpaceCount: 0}, doc.Lines[2])
}

func TestParseFirstLineSeedsMinimum(t *testing.T) {
	assert := assert.New(t)

	doc, err := Parse("\n\n    foo\n    bar")
	assert.NoError(err)
	assert.Equal(0, doc.MinIndent)

	doc, err = Parse("      \n    foo\n  \n    bar")
	assert.NoError(err)
	assert.Equal(4, doc.MinIndent)
}

func TestDropClosingLine(t *testing.T) {
	assert := assert.New(t)
	d := Dedenter{DropClosingLine: true}

	got, err := d.Dedent(`
          foo
            bar
        `)
	assert.NoError(err)
	assert.Equal("foo\n  bar", got)

	doc, err := d.Parse("\n    foo\n  ")
	assert.NoError(err)
	assert.Len(doc.Lines, 1)

	got, err = d.Dedent("    foo\n    bar")
	assert.NoError(err)
	assert.Equal("foo\nbar", got)

	got, err = d.Dedent("   ")
	assert.NoError(err)
	assert.Equal("", got)
}

func TestDedentIsIdempotent(t *testing.T) {
	inputs := []string{
		"\n    foo\n      bar\n  ",
		"\n  a\n\n    b\n  c",
		"    x\n     \n    y",
	}
	for _, in := range inputs {
		once, err := Dedent(in)
		assert.NoError(t, err)

		twice, err := Dedent(once)
		assert.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestWhitespaceLinesDoNotLowerMinimum(t *testing.T) {
	for width := 0; width <= 8; width++ {
		blank := strings.Repeat(" ", width)
		in := "    foo\n" + blank + "\n      bar"

		doc, err := Parse(in)
		assert.NoError(t, err)
		assert.Equal(t, 4, doc.MinIndent, "blank line of width %d", width)

		want := "foo\n" + blank[min(width, 4):] + "\n  bar"
		assert.Equal(t, want, doc.String(), "blank line of width %d", width)
	}
}

func TestCommonPrefixRemoval(t *testing.T) {
	assert := assert.New(t)

	for k := 0; k <= 6; k++ {
		prefix := strings.Repeat(" ", k)
		in := prefix + "a\n" + prefix + "   b\n" + prefix + " c"

		got, err := Dedent(in)
		assert.NoError(err)
		assert.Equal("a\n   b\n c", got, "prefix of %d spaces", k)
	}
}

func TestTrailingBoundaryLineCollapses(t *testing.T) {
	assert := assert.New(t)

	for _, closing := range []string{"", " ", "        ", " \t "} {
		got, err := Dedent("\n    foo\n" + closing)
		assert.NoError(err)
		assert.Equal("foo\n", got, "closing line %q", closing)
	}
}

func TestMustDedent(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("foo", MustDedent("\n  foo"))
	assert.Panics(func() { MustDedent("") })
}

func TestDedentf(t *testing.T) {
	assert := assert.New(t)

	got, err := Dedentf("\n    %s:\n      - %d\n  ", "items", 3)
	assert.NoError(err)
	assert.Equal("items:\n  - 3\n", got)
}

func TestDedentConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)

	for i := 0; i < cap(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := fmt.Sprintf("\n      line %d\n        nested\n    ", i)
			got, err := Dedent(in)
			if err != nil {
				errs <- err
				return
			}
			if want := fmt.Sprintf("line %d\n  nested\n", i); got != want {
				errs <- errors.New("unexpected output " + got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestKeepQuotes(t *testing.T) {
	assert := assert.New(t)
	d := Dedenter{KeepQuotes: true}

	got, err := d.Dedent("\n    \"name\": \"x\",\n    \"id\": \"y\"")
	assert.NoError(err)
	assert.Equal("\"name\": \"x\",\n\"id\": \"y\"", got)

	got, err = Dedent("\n    \"name\": \"x\",\n    \"id\": \"y\"")
	assert.NoError(err)
	assert.Equal("\"name\": \"x\",\n\"id\": \"y", got)
}
