package cli

import (
	"io"
	"os"
	"strings"

	eris "github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	dedent "github.com/jurooravec/dedent/pkg/dedent"
	literal "github.com/jurooravec/dedent/pkg/literal"
	preprocess "github.com/jurooravec/dedent/pkg/preprocess"
	utils "github.com/jurooravec/dedent/pkg/utils"
)

type dedentOptions struct {
	literal         bool
	tabSize         int
	dropClosingLine bool
	write           bool
	verbose         bool
}

func runDedent(opts Options, dedentOpts dedentOptions, args []string) error {
	logger := newLogger(opts, dedentOpts.verbose)

	path := sourcePath(args)
	src, err := readSource(path, opts.Stdin)
	if err != nil {
		return err
	}
	logger.Printf("read %d bytes from %s", len(src), path)

	text := string(src)
	if dedentOpts.literal {
		if text, err = literal.Value(text); err != nil {
			return eris.Wrapf(err, "read literal from %s", path)
		}
		logger.Printf("extracted %d bytes from literal", len(text))
	}
	if dedentOpts.tabSize > 0 {
		text = preprocess.ExpandTabs(text, dedentOpts.tabSize)
	}

	d := dedent.Dedenter{
		DropClosingLine: dedentOpts.dropClosingLine,
		// Quotes in a plain file are content. Literals were unquoted above.
		KeepQuotes: true,
	}
	doc, err := d.Parse(text)
	if err != nil {
		return eris.Wrapf(err, "dedent %s", path)
	}
	logger.Printf("removing %d spaces from %d lines", doc.MinIndent, len(doc.Lines))
	out := doc.String()

	if dedentOpts.write {
		return writeOutput(path, src, out)
	}
	_, err = io.WriteString(opts.Stdout, out)
	return err
}

func maxOneFileArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return eris.New("accepts at most one file path")
	}
	return nil
}

func sourcePath(args []string) string {
	if len(args) == 1 {
		if path := strings.TrimSpace(args[0]); path != "" {
			return path
		}
	}
	return "-"
}

func readSource(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(in)
		if err != nil {
			return nil, eris.Wrap(err, "read stdin")
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read file %q", path)
	}
	return src, nil
}

func writeOutput(path string, src []byte, out string) error {
	if path == "-" {
		return eris.New("--write requires a file path")
	}
	if out == string(src) {
		return nil
	}
	mode := os.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return eris.Wrapf(err, "write file %q", path)
	}
	return nil
}

// mustDedent normalizes help texts written inline below.
func mustDedent(text string) string {
	out, err := preprocess.Normalize(text, preprocess.Options{TabSize: utils.PointerOf(4)})
	if err != nil {
		panic(err)
	}
	return out
}
