package main

import (
	"os"

	"github.com/pankajredekar/stockledger/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
