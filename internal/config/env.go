package config

import (
	"os"
	"path/filepath"

	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the gateway credential.
const APIKeyEnv = "AI_GATEWAY_API_KEY"

// GlobalEnvPath returns <home>/.config/ai-commit/.env.
func GlobalEnvPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, ".env"), nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	// godotenv.Load never overrides variables already present in the environment
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	log.Printf("config: loaded environment from %s", path)
	return nil
}

// LoadCredentials loads .env from the working directory and, if the API key is
// still unset, the global ai-commit .env file. It returns the key, which may be
// empty.
func LoadCredentials() (string, error) {
	if err := loadEnvFile(".env"); err != nil {
		return "", err
	}

	if os.Getenv(APIKeyEnv) == "" {
		globalPath, err := GlobalEnvPath()
		if err == nil {
			if err := loadEnvFile(globalPath); err != nil {
				return "", err
			}
		}
	}

	return os.Getenv(APIKeyEnv), nil
}
