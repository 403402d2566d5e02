package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"UPLOAD_ROOT", "MAX_UPLOAD_BYTES", "TRANSCODE_TIMEOUT",
		"DEFAULT_ACCOUNT_ID", "PORT", "ALLOW_STUB_ANALYSIS", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "uploads", cfg.UploadRoot)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, cfg.TranscodeTimeout)
	assert.Equal(t, config.DefaultAccount, cfg.DefaultAccountID)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.AllowStubAnalysis)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UPLOAD_ROOT", "/var/media")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("TRANSCODE_TIMEOUT", "90s")
	t.Setenv("ALLOW_STUB_ANALYSIS", "true")
	t.Setenv("EXPRESSION_AGENT_URL", "http://localhost:8001")

	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "/var/media", cfg.UploadRoot)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, 90*time.Second, cfg.TranscodeTimeout)
	assert.True(t, cfg.AllowStubAnalysis)
	assert.Equal(t, "http://localhost:8001", cfg.ExpressionAgentURL)
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("voice_agent_url: http://localhost:8002\ntranscode_timeout: 2m\n")
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8002", cfg.VoiceAgentURL)
	assert.Equal(t, 2*time.Minute, cfg.TranscodeTimeout)
}

func TestLoad_ConfigFileMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		UploadRoot:       "uploads",
		MaxUploadBytes:   1,
		TranscodeTimeout: time.Second,
		DefaultAccountID: config.DefaultAccount,
	}
	assert.NoError(t, cfg.Validate())

	cfg.UploadRoot = ""
	assert.Error(t, cfg.Validate())

	cfg.UploadRoot = "uploads"
	cfg.MaxUploadBytes = 0
	assert.Error(t, cfg.Validate())

	cfg.MaxUploadBytes = 1
	cfg.TranscodeTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg.TranscodeTimeout = time.Second
	cfg.DefaultAccountID = ""
	assert.Error(t, cfg.Validate())
}
