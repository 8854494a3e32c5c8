package main

import (
	"os"

	"github.com/reoring/skemaedit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
