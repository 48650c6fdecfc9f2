package main

import (
	"os"

	"github.com/Cesliva/quant-sub005/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
