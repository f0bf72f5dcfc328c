package config

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

func loadDotEnvIfPresent(path string) {
	if err := loadDotEnv(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring %s: %v", path, err)
	}
}

// loadDotEnv sets KEY=VALUE pairs from path. Existing variables are kept.
func loadDotEnv(path string) error {
	return godotenv.Load(path)
}
