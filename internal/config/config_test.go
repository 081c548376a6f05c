package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "complaints:events", cfg.Redis.EventsChannel)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, "60-M", cfg.RateLimit.Rate)
	assert.Equal(t, "/uploads/complaints", cfg.Uploads.URLPrefix)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_FromDotEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte(
		"STORE_DRIVER=memory\nREDIS_ADDR=localhost:6380\nTELEGRAM_BOT_TOKEN=abc\nTELEGRAM_MANAGER_CHAT_ID=-100123\nCORS_ORIGINS=https://a.edu,https://b.edu\n",
	), 0o600))
	for _, k := range []string{"STORE_DRIVER", "REDIS_ADDR", "TELEGRAM_BOT_TOKEN", "TELEGRAM_MANAGER_CHAT_ID", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWTSecret, "the process environment wins over .env")
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100123), cfg.Telegram.ManagerChatID)
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.CORSOrigins)
}

func TestDatabaseOptions_DSN(t *testing.T) {
	d := DatabaseOptions{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable", d.DSN())
}

func TestAllowedAttachmentExtensions(t *testing.T) {
	for _, ext := range []string{"jpeg", "jpg", "png", "gif", "webp", "pdf", "doc", "docx"} {
		assert.True(t, AllowedAttachmentExtensions[ext], ext)
	}
	assert.False(t, AllowedAttachmentExtensions["exe"])
	assert.Equal(t, int64(5*1024*1024), int64(MaxAttachmentSize))
}
