package main

import (
	"os"

	"github.com/diantonioandrea/pacs-second/cmd/pacs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
