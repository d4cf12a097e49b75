package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/infrastructure/sheets"
	"wallet/internal/shared/auth"
	"wallet/internal/shared/config"
)

func testConfig(credentialsFile string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		Sheets: config.SheetsConfig{
			CredentialsFile: credentialsFile,
			SpreadsheetID:   "sheet",
			Timeout:         time.Second,
			Worksheets: config.WorksheetIDs{
				General:       0,
				Transactions:  config.NotConfigured,
				PassiveIncome: config.NotConfigured,
				Stocks:        config.NotConfigured,
				RealEstate:    config.NotConfigured,
				SmallCaps:     config.NotConfigured,
				Results:       config.NotConfigured,
				Dividends:     config.NotConfigured,
			},
		},
		Auth:      config.AuthConfig{Username: "admin", JWTSecret: "secret", SessionTTL: time.Hour},
		Telemetry: config.TelemetryConfig{ServiceName: "wallet-dashboard-test"},
	}
}

func writeCredentials(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	data, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"private_key":  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email": "dashboard@wallet-dashboard.iam.gserviceaccount.com",
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewDependencies_InvalidCredentials(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o600))

	for name, path := range map[string]string{
		"absent":  filepath.Join(dir, "absent.json"),
		"garbage": garbage,
	} {
		t.Run(name, func(t *testing.T) {
			deps, err := NewDependencies(context.Background(), testConfig(path))
			assert.Nil(t, deps)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sheets.ErrInvalidCredentials), "error = %v, want ErrInvalidCredentials", err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

// The dependencies register metrics with the default registry, so they are
// built once for every route check.
func TestSetupRoutes(t *testing.T) {
	cfg := testConfig(writeCredentials(t))
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	cfg.Auth.PasswordHash = hash

	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Close()

	handler := SetupRoutes(deps, cfg)

	tests := []struct {
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"/health", http.StatusOK, ""},
		{"/metrics", http.StatusOK, ""},
		{"/static/style.css", http.StatusOK, ""},
		{"/login", http.StatusOK, ""},
		{"/", http.StatusSeeOther, "/login"},
		{"/fiis?tab=proventos", http.StatusSeeOther, "/login?next=%2Ffiis%3Ftab%3Dproventos"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}

	assert.Len(t, missingWorksheets(deps.Source), 7)
}
