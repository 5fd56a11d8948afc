// Package main provides the saasforge CLI entrypoint.
package main

import (
	"os"

	"github.com/fathomdata/saasforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
