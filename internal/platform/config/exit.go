package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted message to stderr and terminates with exit code 1.
// Meant for CLI entry points where an error leaves nothing to clean up.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
