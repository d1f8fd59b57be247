package cli

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

type Options struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	BuildInfo BuildInfo
}

func Run(args []string, opts Options) error {
	root := newRootCmd(normalizeOptions(opts))
	root.SetArgs(args)
	return root.Execute()
}

func normalizeOptions(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return opts
}

// Logs go to stderr only in verbose mode.
func newLogger(opts Options, verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(opts.Stderr, "dedent: ", log.Ltime|log.Lshortfile)
}

func newRootCmd(opts Options) *cobra.Command {
	dedentOpts := dedentOptions{}
	cmd := &cobra.Command{
		Use:   "dedent [file|-]",
		Short: "Remove the common indentation from a block of text",
		Long: mustDedent(`
			Reads a file, or stdin when the file is "-" or missing, removes the
			indentation shared by all of its non-blank lines, and prints the result.

			With --literal, the input is Go source: a string literal, or a call whose
			first argument is one, e.g. dedent.MustDedent(` + "`...`" + `).
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          maxOneFileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedent(opts, dedentOpts, args)
		},
	}
	cmd.SetIn(opts.Stdin)
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)

	fs := cmd.Flags()
	fs.BoolVar(&dedentOpts.literal, "literal", false, "treat the input as a Go string literal")
	fs.IntVar(&dedentOpts.tabSize, "tab-size", 0, "expand tabs to this many spaces first (0 keeps tabs)")
	fs.BoolVar(&dedentOpts.dropClosingLine, "drop-closing-line", false, "remove a trailing whitespace-only line instead of emptying it")
	fs.BoolVarP(&dedentOpts.write, "write", "w", false, "write result back to file")
	cmd.PersistentFlags().BoolVarP(&dedentOpts.verbose, "verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(
		newRenderCmd(opts, &dedentOpts.verbose),
		newVersionCmd(opts),
	)
	return cmd
}
