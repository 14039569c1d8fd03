package main

import (
	"os"

	"sortd/cmd/sortctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
