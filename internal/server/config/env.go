package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from the process environment onto
// the provided Config. A .env file in the working directory is loaded first
// when present; absence is not an error. Unset variables leave the existing
// values untouched, so defaults and JSON-provided values survive.
func parseEnv(config *Config) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(err)
	}
}
