package main

import (
	"os"

	"github.com/tcfw/dancechain/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
