package main

import (
	"os"

	"github.com/allisonrosefund/rosepdf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
