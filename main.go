package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"deniz.dev/gcs-tui/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gcs-tui",
		Short: "Google Cloud Storage bucket tools",
	}

	rootCmd.AddCommand(cmd.NewBrowseCmd())
	rootCmd.AddCommand(cmd.NewLsCmd())
	rootCmd.AddCommand(cmd.NewPutCmd())
	rootCmd.AddCommand(cmd.NewGetCmd())
	rootCmd.AddCommand(cmd.NewRmCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
