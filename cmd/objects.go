package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deniz.dev/gcs-tui/internal/utils"
)

func NewLsCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List the bucket's objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			objects, err := client.Bucket.ListObjects(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Println("no objects")
				return nil
			}
			for _, obj := range objects {
				fmt.Printf("%10s  %-16s  %s\n",
					utils.Size(obj.Size),
					utils.TimeOrDash(obj.Updated, utils.DateTime),
					obj.Name)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func NewPutCmd() *cobra.Command {
	var flags clientFlags
	var contentType, prefix string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Upload a local file to the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			md, err := client.Bucket.UploadFile(cmd.Context(), args[0], contentType, prefix)
			if err != nil {
				return err
			}
			fmt.Printf("uploaded %s (%s)\n", md.Name, utils.Size(md.Size))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&contentType, "content-type", "t", "", "object content type (default application/octet-stream)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "destination prefix inside the bucket")

	return cmd
}

func NewGetCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "get <object> [dir]",
		Short: "Download an object into a local directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			destDir := "."
			if len(args) == 2 {
				destDir = args[1]
			}

			dest, err := client.Bucket.DownloadFile(cmd.Context(), args[0], destDir)
			if err != nil {
				return err
			}
			fmt.Printf("downloaded %s\n", dest)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func NewRmCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "rm <object>",
		Short: "Delete an object from the bucket (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			if err := client.Bucket.DeleteObject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
