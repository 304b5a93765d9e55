package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"viewtrap/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Cache       Cache       `json:"cache"`
	RedisClient RedisClient `json:"redisClient"`
	Database    Database    `json:"database"`
	RateLimit   RateLimit   `json:"rateLimit"`
}

type App struct {
	Port           int      `json:"port"`
	Environment    string   `json:"environment"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type YouTube struct {
	APIKeys           string `json:"apiKeys"`
	APIKey            string `json:"apiKey"`
	RegionCode        string `json:"regionCode"`
	RelevanceLanguage string `json:"relevanceLanguage"`
	QuotaShared       bool   `json:"quotaShared"`
	ResetCooldown     string `json:"resetCooldown"`
}

type Cache struct {
	MaxEntries          int `json:"maxEntries"`
	ExpiryMarginSeconds int `json:"expiryMarginSeconds"`
}

type RedisClient struct {
	URL string `json:"url"`
}

type Database struct {
	URL string `json:"url"`
}

type RateLimit struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

var C Config

func init() {
	LoadConfig()
}

// LoadConfig reads config[-ENV].json when present and then applies
// environment overrides. Environment always wins over the file.
func LoadConfig() {
	C = Config{}
	name := getConfig()
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Debug("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := v.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	initApp(&C)
	initCache(&C)
	initYouTube(&C)
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	C.App.Environment = getConfigValue(C.App.Environment, "ENV", "development")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = splitList(v)
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:3000"}
	}
	C.RateLimit.RPS = getEnvFloat("RATE_LIMIT_RPS", C.RateLimit.RPS, 20)
	C.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", C.RateLimit.Burst, 40)
}

func initCache(C *Config) {
	// KV_URL is accepted for deployments that name the key-value store that way.
	C.RedisClient.URL = getConfigValue(C.RedisClient.URL, "REDIS_URL", "")
	if C.RedisClient.URL == "" {
		C.RedisClient.URL = getEnv("KV_URL", "")
	}
	C.Database.URL = getConfigValue(C.Database.URL, "DATABASE_URL", "")
	C.Cache.MaxEntries = getEnvInt("CACHE_MAX_ENTRIES", C.Cache.MaxEntries, 100)
	C.Cache.ExpiryMarginSeconds = getEnvInt("CACHE_EXPIRY_MARGIN_SECONDS", C.Cache.ExpiryMarginSeconds, 60)
}

func initYouTube(C *Config) {
	C.YouTube.APIKeys = getConfigValue(C.YouTube.APIKeys, "YOUTUBE_API_KEYS", "")
	C.YouTube.APIKey = getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	C.YouTube.RegionCode = getConfigValue(C.YouTube.RegionCode, "YOUTUBE_REGION_CODE", "KR")
	C.YouTube.RelevanceLanguage = getConfigValue(C.YouTube.RelevanceLanguage, "YOUTUBE_RELEVANCE_LANGUAGE", "ko")
	C.YouTube.ResetCooldown = getConfigValue(C.YouTube.ResetCooldown, "QUOTA_RESET_COOLDOWN", "0s")
	if v := os.Getenv("QUOTA_SHARED"); v != "" {
		C.YouTube.QuotaShared = parseBool(v)
	}
}

// ResetCooldown parses YouTube.ResetCooldown, treating bad input as zero.
func (c Config) ResetCooldown() time.Duration {
	d, err := time.ParseDuration(c.YouTube.ResetCooldown)
	if err != nil || d < 0 {
		if c.YouTube.ResetCooldown != "" {
			logger.GetLogger().WithField("value", c.YouTube.ResetCooldown).Warn("Invalid QUOTA_RESET_COOLDOWN, using 0")
		}
		return 0
	}
	return d
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}

func getEnvInt(key string, configValue, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	if configValue > 0 {
		return configValue
	}
	return defaultValue
}

func getEnvFloat(key string, configValue, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil && p > 0 {
			return p
		}
	}
	if configValue > 0 {
		return configValue
	}
	return defaultValue
}
