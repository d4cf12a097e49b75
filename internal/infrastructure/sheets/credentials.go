package sheets

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidCredentials is returned when the service account key file is
// missing, unreadable or not a usable service account key.
var ErrInvalidCredentials = errors.New("invalid service account credentials")

type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// LoadCredentials reads and checks a Google service account key file. Errors
// name the file and wrap ErrInvalidCredentials.
func LoadCredentials(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCredentials, path, err)
	}

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed JSON: %w", ErrInvalidCredentials, path, err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("%w: %s: type is %q, want \"service_account\"", ErrInvalidCredentials, path, key.Type)
	}
	if key.ClientEmail == "" {
		return nil, fmt.Errorf("%w: %s: client_email is empty", ErrInvalidCredentials, path)
	}
	if err := checkPrivateKey(key.PrivateKey); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCredentials, path, err)
	}
	return data, nil
}

// checkPrivateKey accepts the PEM encoded RSA keys Google issues, PKCS#8 or
// PKCS#1.
func checkPrivateKey(raw string) error {
	if raw == "" {
		return errors.New("private_key is empty")
	}
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return errors.New("private_key is not PEM encoded")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
		return fmt.Errorf("private_key: %w", err)
	}
	return nil
}
