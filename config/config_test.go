package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	assert.Equal(t, "5000", cfg.API.ListenPort)
	assert.Equal(t, "https://gitrec.gorse.io", cfg.Gitrec.BaseURL)
	assert.Equal(t, "v2", cfg.Gitrec.APIVersion)
	assert.Equal(t, 60, cfg.Github.DefaultHourlyLimit)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.API.SessionTTL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITREC_BASE_URL", "http://localhost:8080")
	t.Setenv("GITREC_STORE_PATH", "/tmp/prefs.db")

	cfg := GetDefault()
	applyEnv(cfg)

	assert.Equal(t, "ghp_test", cfg.Github.Token)
	assert.Equal(t, "http://localhost:8080", cfg.Gitrec.BaseURL)
	assert.Equal(t, "/tmp/prefs.db", cfg.Store.Path)
}
