// Package sim runs the ecosystem: creature behavior, population
// management, and the tick loop tying terrain, food, and genetics together.
package sim

import (
	"fmt"
	"io"
)

// logWriter is the destination for per-tick debug traces. Defaults to
// discard; the runner points it at stderr when verbose.
var logWriter io.Writer = io.Discard

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted trace message.
func Logf(format string, args ...interface{}) {
	fmt.Fprintf(logWriter, format+"\n", args...)
}
