package main

import (
	"os"

	"github.com/rustyeddy/pricepaths/cmd/pricepaths/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
