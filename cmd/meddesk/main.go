package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// API keys may live in a local .env file.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "meddesk",
		Short:   "Medical help desk analytics assistant",
		Version: version,
	}

	root.AddCommand(
		newAskCmd(),
		newKBCmd(),
		newCacheCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
