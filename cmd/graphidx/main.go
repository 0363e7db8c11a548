// Package main provides the entry point for the graphidx CLI.
package main

import (
	"os"

	"github.com/adfharrison1/go-graph-index/cmd/graphidx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
