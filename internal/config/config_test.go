package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte("key_file: /etc/gcs/key.json\nclient_email: sa@project.iam.gserviceaccount.com\nbucket: prod-artifacts\n"), 0644)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "/etc/gcs/key.json", cfg.KeyFile)
	assert.Equal(t, "sa@project.iam.gserviceaccount.com", cfg.ClientEmail)
	assert.Equal(t, "prod-artifacts", cfg.Bucket)
}

func TestMerge_CLIFlagsTakePrecedence(t *testing.T) {
	cfg := &Config{KeyFile: "/file/key.pem", ClientEmail: "file@example.com", Bucket: "file-bucket"}

	// CLI flags override
	k, e, b := cfg.Merge("/flag/key.pem", "flag@example.com", "flag-bucket")
	assert.Equal(t, "/flag/key.pem", k)
	assert.Equal(t, "flag@example.com", e)
	assert.Equal(t, "flag-bucket", b)

	// Empty flags fall back to config
	k, e, b = cfg.Merge("", "", "")
	assert.Equal(t, "/file/key.pem", k)
	assert.Equal(t, "file@example.com", e)
	assert.Equal(t, "file-bucket", b)

	// Partial override
	k, e, b = cfg.Merge("", "", "other-bucket")
	assert.Equal(t, "/file/key.pem", k)
	assert.Equal(t, "file@example.com", e)
	assert.Equal(t, "other-bucket", b)
}

func TestValidate(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key file")

	err = (&Config{KeyFile: "/k.pem"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")

	// Email may come from a JSON key file, so it is not required here.
	err = (&Config{KeyFile: "/k.pem", Bucket: "b"}).Validate()
	assert.NoError(t, err)
}
