package main

import (
	"os"

	"github.com/melissasara-mathews/yfinance/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
