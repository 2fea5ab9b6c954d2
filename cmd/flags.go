package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"deniz.dev/gcs-tui/internal/config"
	"deniz.dev/gcs-tui/internal/gcs"
)

// clientFlags are the connection flags every command accepts. Flag values
// override the config file.
type clientFlags struct {
	key             string
	email           string
	bucket          string
	transferTimeout time.Duration
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "service-account key file (PEM or JSON)")
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "service-account email")
	cmd.Flags().StringVarP(&f.bucket, "bucket", "b", "", "bucket name")
	cmd.Flags().DurationVar(&f.transferTimeout, "transfer-timeout", 0, "timeout for uploads and downloads (0 = none)")
}

// client merges flags with the config file and builds the service client.
func (f *clientFlags) client() (*gcs.ServiceClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	key, email, bucketName := cfg.Merge(f.key, f.email, f.bucket)
	merged := &config.Config{KeyFile: key, ClientEmail: email, Bucket: bucketName}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	var opts []gcs.Option
	if f.transferTimeout > 0 {
		opts = append(opts, gcs.WithTransferTimeout(f.transferTimeout))
	}

	client, err := gcs.NewServiceClient(key, email, bucketName, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing storage client: %w", err)
	}
	return client, nil
}
