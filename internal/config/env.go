package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnv reads .env from the working directory, falling back to ~/.playground.env.
// Variables already present in the environment win.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		home, err := os.UserHomeDir()
		if err == nil {
			godotenv.Load(filepath.Join(home, ".playground.env"))
		}
	}
}
