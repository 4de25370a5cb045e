package main

import (
	"os"

	"readsanalyzer/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
