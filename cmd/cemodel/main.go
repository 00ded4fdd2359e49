package main

import (
	"fmt"
	"os"

	"github.com/Amanymarey2/cost-effective-model/cmd/cemodel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
