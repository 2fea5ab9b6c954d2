package cmd

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"deniz.dev/gcs-tui/internal/tui"
)

func NewBrowseCmd() *cobra.Command {
	var flags clientFlags
	var destDir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the bucket's objects interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			model := tui.NewModel(client, destDir)
			p := tea.NewProgram(model)
			if _, err := p.Run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&destDir, "dest", "d", ".", "directory downloads are written to")

	return cmd
}
