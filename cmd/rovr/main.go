package main

import (
	"os"

	"github.com/pfassina/rovr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
