package gcs

import (
	"fmt"
	"net/http"
	"time"

	"deniz.dev/gcs-tui/internal/gcs/auth"
	"deniz.dev/gcs-tui/internal/gcs/bucket"
)

// ServiceClient bundles the token provider and the bucket client for one
// bucket. Every bucket request goes through the provider's transport, so all
// four operations refresh a stale token before use.
type ServiceClient struct {
	Auth   *auth.TokenProvider
	Bucket *bucket.Client

	email string
}

// Option configures a ServiceClient.
type Option func(*options)

type options struct {
	authOpts   []auth.ProviderOption
	bucketOpts []bucket.Option
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(u string) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, auth.WithTokenURL(u)) }
}

// WithEndpoint overrides the storage API and upload base URLs.
func WithEndpoint(apiBase, uploadBase string) Option {
	return func(o *options) { o.bucketOpts = append(o.bucketOpts, bucket.WithEndpoint(apiBase, uploadBase)) }
}

// WithTransferTimeout bounds upload and download requests.
func WithTransferTimeout(d time.Duration) Option {
	return func(o *options) { o.bucketOpts = append(o.bucketOpts, bucket.WithTransferTimeout(d)) }
}

// NewServiceClient loads the service-account credentials and wires up an
// authenticated client for the named bucket. Key source, client email (unless
// the key file carries it) and bucket name are all required; a missing or
// invalid parameter fails here, before any network activity.
func NewServiceClient(keySource, clientEmail, bucketName string, opts ...Option) (*ServiceClient, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	creds, err := auth.LoadCredentials(keySource, clientEmail)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	provider := auth.NewTokenProvider(creds, o.authOpts...)

	bucketClient, err := bucket.NewClient(bucketName, provider.WrapTransport(http.DefaultTransport), o.bucketOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing bucket client: %w", err)
	}

	return &ServiceClient{
		Auth:   provider,
		Bucket: bucketClient,
		email:  creds.Email,
	}, nil
}

// Email returns the service-account email the client authenticates as.
func (c *ServiceClient) Email() string {
	return c.email
}
