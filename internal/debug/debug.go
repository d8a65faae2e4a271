// Package debug provides ad-hoc stderr tracing gated on CATNIP_DEBUG.
package debug

import (
	"fmt"
	"os"
)

// Enabled reports whether debug tracing is on.
func Enabled() bool {
	val := os.Getenv("CATNIP_DEBUG")
	return val == "1" || val == "true"
}

// Logf prints a debug trace line to stderr when CATNIP_DEBUG is "1" or
// "true".
func Logf(format string, args ...interface{}) {
	if Enabled() {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}
