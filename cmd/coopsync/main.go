// Package main is the entry point for the coopsync CLI.
package main

import (
	"os"

	"github.com/harukit/coopsync/cmd/coopsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
