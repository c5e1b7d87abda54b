package main

import (
	"os"

	"thai-reading-adventure/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
