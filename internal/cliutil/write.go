// Package cliutil provides output helpers for the apiflow CLI.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// writeErrors receives failures that Writef cannot return to its caller.
var writeErrors io.Writer = os.Stderr

// Writef writes formatted output to w. Failed writes are reported on stderr,
// except a closed pipe: `apiflow convert api.yaml | head` stops reading early
// and that is not an error worth printing.
func Writef(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err == nil || errors.Is(err, syscall.EPIPE) {
		return
	}
	_, _ = fmt.Fprintf(writeErrors, "write error: %v\n", err)
}

// Statusf writes a confirmation line such as "Converted a.yaml to b.json"
// unless quiet is set. Results always go through Writef; status lines are
// diagnostics and --quiet drops them.
func Statusf(w io.Writer, quiet bool, format string, args ...any) {
	if quiet {
		return
	}
	Writef(w, format, args...)
}
