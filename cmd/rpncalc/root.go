package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/MylesJPritchett/rpn-calc/internal/app"
	"github.com/MylesJPritchett/rpn-calc/internal/renderer/backend"
)

type rootFlags struct {
	opts  app.Options
	batch bool
}

// newRootCmd builds the command tree. Streams are injected for tests.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "rpncalc [file]",
		Short: "A reverse Polish notation calculator",
		Long: `rpncalc is a terminal RPN calculator with undo and redo.

Enter numbers to push them, then an operator to apply it:
  + - * / % ^ !  neg abs sqrt recip  log10 logn log2
  sin cos tan asin acos atan deg rad
  swap drop clear undo redo, and an empty line duplicates the top.

When stdin is not a terminal, or with --batch, lines are read from stdin
(or the named file) and the final stack is printed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, f, args, in, out, errOut)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.opts.ConfigPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&f.opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&f.opts.LogFile, "log-file", "", "write logs to this file")
	flags.StringVar(&f.opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.BoolVar(&f.opts.Watch, "watch", false, "reload display settings when the config file changes")
	flags.BoolVar(&f.opts.Trace, "trace", false, "in batch mode, print the stack after every line")
	flags.BoolVarP(&f.batch, "batch", "b", false, "read lines from stdin instead of starting the UI")

	cmd.AddCommand(newVersionCmd(out))
	return cmd
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "rpncalc %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

func runRoot(cmd *cobra.Command, f rootFlags, args []string, in io.Reader, out, errOut io.Writer) (err error) {
	batch := f.batch || len(args) > 0 || !isTerminal(in)

	opts := f.opts
	if batch && opts.LogFile == "" {
		opts.LogOutput = errOut
	}

	application, err := app.New(opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, application.Close())
	}()

	if batch {
		if len(args) > 0 {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			in = file
		}
		return application.RunBatch(cmd.Context(), in, out)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := application.SetBackend(term); err != nil {
		return err
	}

	if err := application.Run(cmd.Context()); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
