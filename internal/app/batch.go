package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MylesJPritchett/rpn-calc/internal/renderer"
)

// RunBatch feeds each line of r to the dispatcher and then prints the
// stack to w, top first, formatted as in the terminal UI. A trailing
// carriage return is dropped from each line and lines have no length
// limit. Cancelling ctx stops between lines.
func (app *Application) RunBatch(ctx context.Context, r io.Reader, w io.Writer) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.RLock()
	display := app.display
	app.mu.RUnlock()

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		text, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read input: %w", readErr)
		}
		if text == "" && readErr == io.EOF {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		res := app.process(text)

		if app.opts.Trace {
			stack := app.dispatcher.Stack()
			vals := make([]string, len(stack))
			for i, v := range stack {
				vals[i] = renderer.FormatValue(v, display.Precision)
			}
			if _, err := fmt.Fprintf(w, "%d: %q -> %s [%s]\n", lineNo, text, res.Status, strings.Join(vals, " ")); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	for _, line := range renderer.FormatStack(app.dispatcher.Stack(), display.Precision, display.ShowIndex) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
