package main

import (
	"os"

	"github.com/jmcampos/techexpert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
