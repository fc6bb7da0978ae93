package main

import (
	"os"

	"github.com/jawnty/li-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
