package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cmm-lang/cmmc/cmm"
	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/unparse"
)

var (
	annotate    bool
	warnAsError bool
	dumpAST     bool

	compileCmd = &cobra.Command{
		Use:   "compile <file>",
		Short: "Scan, parse, and resolve a .cmm file, printing its canonical unparse to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <file>")
			}
			filename := args[0]

			cfg, err := LoadConfig(filename)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("annotate") {
				cfg.Annotate = annotate
			}
			if cmd.Flags().Changed("warnings-as-errors") {
				cfg.WarningsAsErrors = warnAsError
			}
			if cmd.Flags().Changed("dump-ast") {
				cfg.DumpAST = dumpAST
			}

			src, err := os.ReadFile(filename)
			if err != nil {
				return err
			}

			r := cmm.Compile(filename, string(src))
			logDiagnostics(r.Sink)

			if r.Program == nil {
				return fmt.Errorf("%s: compilation failed", filename)
			}

			if cfg.DumpAST {
				fmt.Println(unparse.Dump(r.Program))
			}
			fmt.Print(unparse.String(r.Program, cfg.Annotate))

			if r.Sink.HasErrors() {
				return fmt.Errorf("%s: name resolution reported errors", filename)
			}
			if cfg.WarningsAsErrors && len(r.Sink.Diagnostics()) > 0 {
				return fmt.Errorf("%s: warnings present and warnings-as-errors is set", filename)
			}
			return nil
		},
	}
)

// logDiagnostics writes the exact diagnostic-stream text to stderr
// (cmm.Compile builds its Sink without a Stream, so the CLI owns that
// output) and mirrors each one into logrus, structured by position and
// severity, for anyone tailing structured logs instead of stderr.
func logDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())

		entry := logrus.WithFields(logrus.Fields{
			"line": d.Pos.Line,
			"col":  d.Pos.Column,
		})
		if d.Severity == diag.Error {
			entry.Error(d.Message)
		} else {
			entry.Warn(d.Message)
		}
	}
}

func init() {
	compileCmd.Flags().BoolVar(&annotate, "annotate", false, "print resolved symbol annotations alongside each identifier")
	compileCmd.Flags().BoolVar(&warnAsError, "warnings-as-errors", false, "exit non-zero if any warning was reported")
	compileCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print a structural dump of the resolved AST before the unparse")
	rootCmd.AddCommand(compileCmd)
}
