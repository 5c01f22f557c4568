package main

import (
	"fmt"
	"os"

	"github.com/samvad-hq/samvad-customers/cmd/customerctl/commands"
	"github.com/samvad-hq/samvad-customers/internal/config"
)

func main() {
	if err := commands.NewRootCommand(config.NewViper()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "customerctl: %v\n", err)
		os.Exit(1)
	}
}
