// Command batchlint drives an external linter across a pool of
// memory-aware worker processes.
package main

import (
	"fmt"
	"os"

	"github.com/jpequegn/batchlint/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
