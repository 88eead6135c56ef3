package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "grove",
		Short:   "grove — MCP broker for the DeepSeek coding specialist",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newReportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
