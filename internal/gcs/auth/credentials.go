package auth

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the service-account identity used to mint access tokens.
// Immutable once loaded.
type Credentials struct {
	Email string
	Key   *rsa.PrivateKey
}

// keyFileJSON matches the fields we care about in a service-account key file.
type keyFileJSON struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// LoadCredentials resolves key material from source — a file path or literal
// PEM text — and pairs it with the service-account email. A JSON key file
// supplies its own client_email; a non-empty email argument overrides it.
// Fails before any network activity if the key or email is missing or invalid.
func LoadCredentials(source, email string) (*Credentials, error) {
	if source == "" {
		return nil, fmt.Errorf("private key source is required")
	}

	data := []byte(source)
	if !strings.Contains(source, "-----BEGIN") {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		data = b
	}

	pemData := data
	if len(data) > 0 && data[0] == '{' {
		var kf keyFileJSON
		if err := json.Unmarshal(data, &kf); err != nil {
			return nil, fmt.Errorf("parsing key file: %w", err)
		}
		if kf.PrivateKey == "" {
			return nil, fmt.Errorf("key file has no private_key field")
		}
		pemData = []byte(kf.PrivateKey)
		if email == "" {
			email = kf.ClientEmail
		}
	}

	if email == "" {
		return nil, fmt.Errorf("client email is required")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &Credentials{Email: email, Key: key}, nil
}
