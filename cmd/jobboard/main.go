// cmd/jobboard/main.go
//
// This is the entry point for the jobboard CLI.
// Running `jobboard` with no arguments opens the TUI in the current
// directory; `jobboard jobs` prints matching listings and exits.

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
