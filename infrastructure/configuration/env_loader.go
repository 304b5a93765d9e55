package configuration

import (
	"os"

	"viewtrap/infrastructure/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile loads KEY=VALUE pairs from the given files that exist
// (e.g. config.env, .env). Variables already in the environment are kept.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Failed to load env file")
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
