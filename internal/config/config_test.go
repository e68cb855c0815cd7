package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the package reads so each test starts from
// the defaults. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAppHome, EnvFile, EnvBackend, EnvBirthdayDays, EnvImage} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv(EnvAppHome, home)

	cfg := FromEnv()

	assert.Equal(t, home, cfg.AppHome)
	assert.Equal(t, filepath.Join(home, DefaultFile), cfg.DataFile)
	assert.Equal(t, "", cfg.Backend)
	assert.Equal(t, 7, cfg.BirthdayDays)
	assert.Equal(t, DefaultImage, cfg.Image)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppHome, "/app")
	t.Setenv(EnvFile, "data/book.db")
	t.Setenv(EnvBackend, "sqlite")
	t.Setenv(EnvBirthdayDays, "30")
	t.Setenv(EnvImage, "registry.local/bot:1.0")

	cfg := FromEnv()

	assert.Equal(t, "/app/data/book.db", cfg.DataFile)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, 30, cfg.BirthdayDays)
	assert.Equal(t, "registry.local/bot:1.0", cfg.Image)
}

func TestFromEnv_InvalidDaysFallBack(t *testing.T) {
	for _, v := range []string{"soon", "-3"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvBirthdayDays, v)
			assert.Equal(t, 7, FromEnv().BirthdayDays)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/data/book.json", ResolvePath("/app", "/data/../data/book.json"))
	assert.Equal(t, "/app/book.json", ResolvePath("/app", "book.json"))
}

// TestLoadDotEnv verifies that .env values fill unset variables but never
// override the real environment, and that a missing file is fine.
func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "ASSISTANT_BOT_FILE=from-dotenv.yaml\nASSISTANT_BOT_IMAGE=dotenv:tag\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Unset rather than blank, because godotenv treats "" as already set.
	require.NoError(t, os.Unsetenv(EnvFile))
	t.Setenv(EnvImage, "real:tag")

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv(EnvFile) })

	assert.Equal(t, "from-dotenv.yaml", os.Getenv(EnvFile))
	assert.Equal(t, "real:tag", os.Getenv(EnvImage))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
