package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	envFile        = ".env"
	envExampleFile = ".env.example"

	// envAPIKey holds the Google Fonts Developer API key.
	envAPIKey = "GOOGLE_FONTS_API_KEY"
)

// loadEnv loads dir/.env into the process environment. When .env is missing
// but .env.example exists, the example is copied first so the user has a
// file to fill in. Variables already set in the environment win.
func loadEnv(dir string) (created bool, err error) {
	path := filepath.Join(dir, envFile)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		example, err := os.ReadFile(filepath.Join(dir, envExampleFile))
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", envExampleFile, err)
		}
		if err := os.WriteFile(path, example, 0o600); err != nil {
			return false, fmt.Errorf("create %s: %w", envFile, err)
		}
		created = true
	}

	if err := godotenv.Load(path); err != nil {
		return created, fmt.Errorf("load %s: %w", envFile, err)
	}
	return created, nil
}

// apiKey returns the configured Google Fonts API key, if any.
func apiKey() string {
	return os.Getenv(envAPIKey)
}
