package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console prints the run's status lines. Errors go to the error writer.
type Console struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	faint  *color.Color
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// NewConsole returns a console writing to stdout and stderr unless overridden.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.green = color.New(color.FgGreen)
	c.yellow = color.New(color.FgYellow)
	c.red = color.New(color.FgRed)
	c.faint = color.New(color.Faint)
	if c.noColor {
		for _, col := range []*color.Color{c.green, c.yellow, c.red, c.faint} {
			col.DisableColor()
		}
	}
	return c
}

// WithWriter sets the destination of status lines.
func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.writer = w
	}
}

// WithErrWriter sets the destination of error lines.
func WithErrWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.errWriter = w
	}
}

// WithVerbose enables Debug output.
func WithVerbose(v bool) ConsoleOption {
	return func(c *Console) {
		c.verbose = v
	}
}

// WithNoColor disables ANSI colors.
func WithNoColor(nc bool) ConsoleOption {
	return func(c *Console) {
		c.noColor = nc
	}
}

// Verbose reports whether debug lines are printed.
func (c *Console) Verbose() bool {
	return c != nil && c.verbose
}

// Info prints an uncolored status line.
func (c *Console) Info(format string, args ...any) {
	if c == nil {
		return
	}
	fmt.Fprintf(c.writer, format+"\n", args...)
}

// Success prints a green status line.
func (c *Console) Success(format string, args ...any) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.writer, c.green.Sprintf(format, args...))
}

// Warn prints a yellow status line.
func (c *Console) Warn(format string, args ...any) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.writer, c.yellow.Sprintf(format, args...))
}

// Error prints a red line to the error writer.
func (c *Console) Error(format string, args ...any) {
	if c == nil {
		return
	}
	fmt.Fprintln(c.errWriter, c.red.Sprintf(format, args...))
}

// Debug prints only when the console is verbose.
func (c *Console) Debug(format string, args ...any) {
	if !c.Verbose() {
		return
	}
	fmt.Fprintln(c.writer, c.faint.Sprintf(format, args...))
}
