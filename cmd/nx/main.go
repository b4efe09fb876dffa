package main

import (
	"os"

	"github.com/nx-lang/nx-go/cmd/nx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
