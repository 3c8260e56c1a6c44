package main

import (
	"fmt"
	"os"

	"scobro-sync/cmd/scobro-sync/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
