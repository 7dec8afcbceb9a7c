package main

import (
	"os"

	"github.com/clubdesk/console/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
