package main

import (
	"os"

	"github.com/cmm-lang/cmmc/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
