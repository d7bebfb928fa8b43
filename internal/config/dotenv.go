package config

import "github.com/joho/godotenv"

// LoadDotEnv reads a .env file into the environment.
// It does NOT override existing env vars (env takes precedence).
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
