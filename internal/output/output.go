// Package output provides consistent CLI status lines, styled with lipgloss
// when writing to a terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/bookindex/internal/ui"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out      io.Writer
	useColor bool
	styles   ui.Styles
}

// New creates a Writer. Color is used only when out is a terminal and
// NO_COLOR is unset.
func New(out io.Writer) *Writer {
	useColor := ui.IsTTY(out) && !ui.DetectNoColor()
	return &Writer{
		out:      out,
		useColor: useColor,
		styles:   ui.GetStyles(!useColor),
	}
}

func (w *Writer) println(style lipgloss.Style, msg string) {
	if w.useColor {
		msg = style.Render(msg)
	}
	_, _ = fmt.Fprintln(w.out, msg)
}

// Status prints a message after a short label, or indented when label is empty.
func (w *Writer) Status(label, msg string) {
	if label != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", label, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message.
func (w *Writer) Statusf(label, format string, args ...any) {
	w.Status(label, fmt.Sprintf(format, args...))
}

// Success prints a completion message.
func (w *Writer) Success(msg string) {
	w.println(w.styles.Success, msg)
}

// Successf prints a formatted completion message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Info prints an informational message.
func (w *Writer) Info(msg string) {
	w.println(w.styles.Info, msg)
}

// Infof prints a formatted informational message.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

// Warning prints a message prefixed with "Warning: ".
func (w *Writer) Warning(msg string) {
	w.println(w.styles.Warning, "Warning: "+msg)
}

// Warningf prints a formatted warning.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints a message prefixed with "Error: ".
func (w *Writer) Error(msg string) {
	w.println(w.styles.Error, "Error: "+msg)
}

// Errorf prints a formatted error.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Code prints a block with each line indented.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
