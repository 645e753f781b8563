package main

import (
	"os"

	"github.com/templui/postindex/cmd/postindex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
