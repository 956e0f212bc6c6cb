package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENCYHUB_AUTH_SIGNING_KEY", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "agencyhub.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "stdout", cfg.OTel.Exporter)
	assert.Equal(t, 7*24*time.Hour, cfg.Expiry.NoticeWindow)
	assert.Equal(t, 5*time.Minute, cfg.Cache.OfferingTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENCYHUB_HTTP_ADDR", ":9090")
	t.Setenv("AGENCYHUB_DATABASE_PATH", "/tmp/agency.db")
	t.Setenv("AGENCYHUB_EXPIRY_NOTICE_WINDOW", "72h")
	t.Setenv("AGENCYHUB_OTEL_EXPORTER", "none")
	t.Setenv("AGENCYHUB_AUTH_SIGNING_KEY", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/agency.db", cfg.Database.Path)
	assert.Equal(t, 72*time.Hour, cfg.Expiry.NoticeWindow)
	assert.Equal(t, "none", cfg.OTel.Exporter)
	assert.Equal(t, "env-secret", cfg.Auth.SigningKey)
}

func TestLoad_SigningKeyRequired(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("")
	assert.ErrorContains(t, err, "auth.signing_key")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agencyhub.yaml")
	content := []byte("http:\n  addr: \":7070\"\nauth:\n  signing_key: from-file\nlog:\n  format: text\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "from-file", cfg.Auth.SigningKey)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidExporter(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENCYHUB_OTEL_EXPORTER", "zipkin")
	t.Setenv("AGENCYHUB_AUTH_SIGNING_KEY", "test-secret")

	_, err := Load("")
	assert.ErrorContains(t, err, "otel.exporter")
}
