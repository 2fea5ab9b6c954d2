package bucket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAPIBase    = "https://storage.googleapis.com/storage/v1"
	defaultUploadBase = "https://storage.googleapis.com/upload/storage/v1"

	// metadataTimeout bounds list and delete calls. Transfers use the
	// configurable transfer timeout instead (default: unbounded).
	metadataTimeout = 10 * time.Second

	// uploadChunkSize is the read-buffer size used when streaming an upload,
	// so large files are never held in memory whole.
	uploadChunkSize = 1 << 20

	defaultContentType = "application/octet-stream"
)

// Client performs object operations against a single bucket. All requests are
// sent through the supplied transport, which is expected to inject the
// Authorization header (see auth.TokenProvider.WrapTransport).
type Client struct {
	bucket     string
	apiBase    string
	uploadBase string

	httpClient     *http.Client // list, delete
	transferClient *http.Client // upload, download
}

// Option configures a Client.
type Option func(*Client)

// WithTransferTimeout bounds upload and download requests. By default they
// have no timeout and block until the transfer completes or fails.
func WithTransferTimeout(d time.Duration) Option {
	return func(c *Client) { c.transferClient.Timeout = d }
}

// WithEndpoint overrides the API and upload base URLs.
func WithEndpoint(apiBase, uploadBase string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimSuffix(apiBase, "/")
		c.uploadBase = strings.TrimSuffix(uploadBase, "/")
	}
}

// NewClient creates a client for the named bucket.
func NewClient(bucketName string, transport http.RoundTripper, opts ...Option) (*Client, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	c := &Client{
		bucket:         bucketName,
		apiBase:        defaultAPIBase,
		uploadBase:     defaultUploadBase,
		httpClient:     &http.Client{Transport: transport, Timeout: metadataTimeout},
		transferClient: &http.Client{Transport: transport},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bucket returns the bucket name the client operates on.
func (c *Client) Bucket() string {
	return c.bucket
}

// ListObjects lists the bucket's objects, optionally filtered by a name
// prefix. Returns an empty slice for an empty bucket.
func (c *Client) ListObjects(ctx context.Context, prefix string) ([]ObjectMetadata, error) {
	endpoint := fmt.Sprintf("%s/b/%s/o", c.apiBase, url.PathEscape(c.bucket))
	if prefix != "" {
		endpoint += "?prefix=" + url.QueryEscape(prefix)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp) {
		return nil, &StatusError{Op: "list", Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list: reading response: %w", err)
	}

	// The API percent-encodes slashes inside object names; decode them back
	// before parsing so nested path names survive intact.
	body = []byte(strings.NewReplacer("%2F", "/", "%2f", "/").Replace(string(body)))

	var listed listResponse
	if err := json.Unmarshal(body, &listed); err != nil {
		return nil, fmt.Errorf("list: decoding response: %w", err)
	}

	objects := make([]ObjectMetadata, 0, len(listed.Items))
	for _, item := range listed.Items {
		objects = append(objects, metadataFromRaw(item))
	}
	return objects, nil
}

// UploadFile streams the local file at srcPath into the bucket and returns
// the created object's metadata. The object name is destPrefix (normalized to
// end with exactly one "/", or empty) followed by the file's base name.
// An empty contentType defaults to application/octet-stream.
func (c *Client) UploadFile(ctx context.Context, srcPath, contentType, destPrefix string) (ObjectMetadata, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("upload: source file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("upload: source file: %w", err)
	}

	object := NormalizePrefix(destPrefix) + filepath.Base(srcPath)
	if contentType == "" {
		contentType = defaultContentType
	}

	query := url.Values{}
	query.Set("name", object)
	query.Set("uploadType", "media")
	endpoint := fmt.Sprintf("%s/b/%s/o?%s", c.uploadBase, url.PathEscape(c.bucket), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bufio.NewReaderSize(f, uploadChunkSize))
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = info.Size()

	resp, err := c.transferClient.Do(req)
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp) {
		return ObjectMetadata{}, &StatusError{Op: "upload", Code: resp.StatusCode, Status: resp.Status}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return ObjectMetadata{}, fmt.Errorf("upload: decoding response: %w", err)
	}
	return metadataFromRaw(raw), nil
}

// DownloadFile fetches the named object and writes it under destDir,
// mirroring any path segments in the object name as subdirectories. destDir
// itself must already exist. Returns the path of the written file.
func (c *Client) DownloadFile(ctx context.Context, object, destDir string) (string, error) {
	if object == "" {
		return "", fmt.Errorf("download: %w", ErrObjectNameRequired)
	}
	info, err := os.Stat(destDir)
	if err != nil {
		return "", fmt.Errorf("download: destination directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("download: destination %s is not a directory", destDir)
	}

	// Object names come from the server in the browse flow; a name with ".."
	// segments must not write outside destDir.
	dest := filepath.Join(destDir, filepath.FromSlash(object))
	if rel, err := filepath.Rel(destDir, dest); err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("download %q: %w", object, ErrObjectNameUnsafe)
	}

	endpoint := fmt.Sprintf("%s/b/%s/o/%s?alt=media",
		c.apiBase, url.PathEscape(c.bucket), url.PathEscape(object))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	resp, err := c.transferClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp) {
		return "", &StatusError{Op: "download", Code: resp.StatusCode, Status: resp.Status}
	}

	if dir := filepath.Dir(dest); dir != destDir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("download: %w", err)
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("download: writing %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return dest, nil
}

// DeleteObject removes the named object from the bucket.
//
// Deletion is irreversible at the API level: there is no confirmation,
// soft-delete or undo. Callers wanting a safeguard must provide their own.
func (c *Client) DeleteObject(ctx context.Context, object string) error {
	if object == "" {
		return fmt.Errorf("delete: %w", ErrObjectNameRequired)
	}

	endpoint := fmt.Sprintf("%s/b/%s/o/%s",
		c.apiBase, url.PathEscape(c.bucket), url.PathEscape(object))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp) {
		return &StatusError{Op: "delete", Code: resp.StatusCode, Status: resp.Status}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// NormalizePrefix reduces a destination prefix to either the empty string or
// a prefix ending in exactly one "/".
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
