// Package assert holds the single programmer-bug-detection primitive used
// across the engine. An assertion failure is never a recoverable error: it
// means an invariant the code relies on elsewhere has already been violated.
package assert

import "fmt"

// Assert panics with a formatted message if the given condition is false.
func Assert(condition bool, msg string, v ...any) {
	if !condition {
		panic(fmt.Sprintf("assertion failed: "+msg, v...))
	}
}
