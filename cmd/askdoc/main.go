package main

import (
	"os"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/cli"
)

func main() {
	err := cli.Execute()
	cli.Close()
	if err != nil {
		os.Exit(1)
	}
}
