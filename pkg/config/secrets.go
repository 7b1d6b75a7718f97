package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for secrets. Secrets are never stored in
// config.toml.
const (
	EnvAIAPIKey        = "AI_API_KEY"
	EnvAIAPIKeyAlias   = "LOVABLE_API_KEY"
	EnvStoreURL        = "SUPABASE_URL"
	EnvStoreServiceKey = "SUPABASE_SERVICE_ROLE_KEY"
)

// Secrets holds credentials read once from the process environment.
type Secrets struct {
	// AIAPIKey authenticates the relay against the upstream model.
	AIAPIKey string

	// StoreURL overrides store.url when set.
	StoreURL string

	// StoreKey is the data store service credential.
	StoreKey string
}

// LoadSecrets seeds the process environment from the given .env files and
// then reads secrets from it. Missing files are skipped and variables that
// are already set are never overwritten.
func LoadSecrets(envFiles ...string) (Secrets, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, err
		}
	}

	s := Secrets{
		AIAPIKey: strings.TrimSpace(os.Getenv(EnvAIAPIKey)),
		StoreURL: strings.TrimSpace(os.Getenv(EnvStoreURL)),
		StoreKey: strings.TrimSpace(os.Getenv(EnvStoreServiceKey)),
	}
	if s.AIAPIKey == "" {
		s.AIAPIKey = strings.TrimSpace(os.Getenv(EnvAIAPIKeyAlias))
	}

	return s, nil
}

// ResolveStoreURL returns the secret store URL when set, otherwise the
// configured one.
func (s Secrets) ResolveStoreURL(configured string) string {
	if s.StoreURL != "" {
		return s.StoreURL
	}
	return configured
}
