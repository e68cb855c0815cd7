// Package config resolves assistant-bot settings from the environment.
//
// Values come from real environment variables, optionally seeded from a
// .env file in the working directory (github.com/joho/godotenv). Real
// environment variables always win over the .env file. Command-line flags
// are applied on top by the cli package.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// Environment variable names.
const (
	// EnvAppHome is the application root. Inside the container image it is
	// also the working directory.
	EnvAppHome = "APP_HOME"

	EnvFile         = "ASSISTANT_BOT_FILE"
	EnvBackend      = "ASSISTANT_BOT_BACKEND"
	EnvBirthdayDays = "ASSISTANT_BOT_BIRTHDAY_DAYS"
	EnvImage        = "ASSISTANT_BOT_IMAGE"
)

// Defaults used when the environment does not say otherwise.
const (
	DefaultFile  = "addressbook.json"
	DefaultImage = "assistant-bot:latest"
)

// Config is the resolved runtime configuration.
type Config struct {
	// AppHome is the directory relative paths are resolved against.
	AppHome string

	// DataFile is the absolute path of the address book.
	DataFile string

	// Backend is the storage backend name; empty means "by extension".
	Backend string

	// BirthdayDays is the default window of the birthdays command.
	BirthdayDays int

	// Image is the tag used by the image build command.
	Image string
}

// Load reads a .env file from the current directory if present, then
// builds the Config from the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	home := getEnv(EnvAppHome, "")
	if home == "" {
		if wd, err := os.Getwd(); err == nil {
			home = wd
		} else {
			home = "."
		}
	}

	days := getEnvInt(EnvBirthdayDays, addressbook.DefaultWindowDays)
	if days < 0 {
		days = addressbook.DefaultWindowDays
	}

	return &Config{
		AppHome:      home,
		DataFile:     ResolvePath(home, getEnv(EnvFile, DefaultFile)),
		Backend:      getEnv(EnvBackend, ""),
		BirthdayDays: days,
		Image:        getEnv(EnvImage, DefaultImage),
	}
}

// ResolvePath makes path absolute relative to home. Absolute paths are
// returned cleaned but otherwise unchanged.
func ResolvePath(home, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(home, path)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
