package configuration

import (
	"os"
	"strings"
)

// YouTubeConfig represents YouTube API configuration
type YouTubeConfig struct {
	APIKeys           []string
	RegionCode        string
	RelevanceLanguage string
}

// GetYouTubeConfig returns YouTube configuration from JSON config with environment variable fallback
func GetYouTubeConfig() *YouTubeConfig {
	return &YouTubeConfig{
		APIKeys:           ParseAPIKeys(C.YouTube.APIKeys, C.YouTube.APIKey),
		RegionCode:        C.YouTube.RegionCode,
		RelevanceLanguage: C.YouTube.RelevanceLanguage,
	}
}

// ParseAPIKeys splits a comma-separated credential list. The single key is
// used only when the list yields nothing.
func ParseAPIKeys(list, single string) []string {
	keys := splitList(list)
	if len(keys) == 0 {
		if single = strings.TrimSpace(single); single != "" && !strings.HasPrefix(single, "YOUR_") {
			keys = append(keys, single)
		}
	}
	return keys
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	// Environment variable takes precedence when provided
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Otherwise use config value if set and not a placeholder
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
