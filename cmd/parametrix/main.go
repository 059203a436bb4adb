package main

import (
	"os"

	"github.com/solatis/parametrix/cmd/parametrix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
