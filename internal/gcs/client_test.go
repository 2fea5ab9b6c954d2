package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func TestNewServiceClient_MissingParameters(t *testing.T) {
	pemKey := testKeyPEM(t)

	tests := []struct {
		name               string
		key, email, bucket string
	}{
		{"no key source", "", "sa@example.com", "my-bucket"},
		{"no email", pemKey, "", "my-bucket"},
		{"no bucket", pemKey, "sa@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewServiceClient(tt.key, tt.email, tt.bucket); err == nil {
				t.Error("expected construction error, got nil")
			}
		})
	}
}

func TestServiceClient_ExchangesOnceAndSendsBearer(t *testing.T) {
	var exchanges atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		io.WriteString(w, `{"access_token":"T1","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	var gotAuth []string
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		io.WriteString(w, `{"items":[{"name":"a.txt","size":"3"}]}`)
	}))
	defer storageSrv.Close()

	client, err := NewServiceClient(testKeyPEM(t), "sa@example.com", "my-bucket",
		WithTokenURL(tokenSrv.URL),
		WithEndpoint(storageSrv.URL+"/storage/v1", storageSrv.URL+"/upload/storage/v1"))
	if err != nil {
		t.Fatalf("NewServiceClient: %v", err)
	}

	objects, err := client.Bucket.ListObjects(context.Background(), "")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objects) != 1 || objects[0].Name != "a.txt" {
		t.Errorf("objects = %+v, want one object a.txt", objects)
	}

	// A second call reuses the cached token; only one exchange total.
	if _, err := client.Bucket.ListObjects(context.Background(), ""); err != nil {
		t.Fatalf("second ListObjects: %v", err)
	}

	if n := exchanges.Load(); n != 1 {
		t.Errorf("token endpoint hit %d times, want 1", n)
	}
	for i, auth := range gotAuth {
		if auth != "Bearer T1" {
			t.Errorf("request %d Authorization = %q, want %q", i, auth, "Bearer T1")
		}
	}
}

func TestServiceClient_UploadAuthenticatesToo(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"T2","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	var gotAuth string
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"name":"f.txt","size":"1"}`)
	}))
	defer storageSrv.Close()

	client, err := NewServiceClient(testKeyPEM(t), "sa@example.com", "my-bucket",
		WithTokenURL(tokenSrv.URL),
		WithEndpoint(storageSrv.URL+"/storage/v1", storageSrv.URL+"/upload/storage/v1"))
	if err != nil {
		t.Fatalf("NewServiceClient: %v", err)
	}

	src := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Bucket.UploadFile(context.Background(), src, "", ""); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if gotAuth != "Bearer T2" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer T2")
	}
}
