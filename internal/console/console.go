// Package console writes leveled diagnostics for the command line.
package console

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Logger writes "[level] message" lines. Debug output is dropped unless
// the logger was created with debug enabled.
type Logger struct {
	w     io.Writer
	debug bool
}

func New(w io.Writer, debug bool) Logger {
	return Logger{w: w, debug: debug}
}

// DebugEnabled reports whether Debug and Dump produce output.
func (l Logger) DebugEnabled() bool {
	return l.debug
}

func (l Logger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.write("debug", fmt.Sprintf(format, args...))
}

func (l Logger) Info(message string) {
	l.write("info", message)
}

func (l Logger) Warn(message string) {
	l.write("warn", message)
}

func (l Logger) Error(message string) {
	l.write("error", message)
}

// Dump writes a labelled spew dump of v in debug mode.
func (l Logger) Dump(label string, v any) {
	if !l.debug {
		return
	}
	l.write("debug", label+":\n"+dumper.Sdump(v))
}

func (l Logger) write(level string, message string) {
	if l.w == nil {
		return
	}
	_, _ = fmt.Fprintf(l.w, "[%s] %s\n", level, message)
}
