package main

import (
	"os"

	"github.com/simao-eugenio/shypn-sub007/cmd/shypn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
