// config.go — Server configuration from environment and .env.
package server

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	Port    int
	DataDir string
}

// LoadConfig reads settings from a .env file (if present) and the
// environment, with STORYCAST_ prefixed keys.
func LoadConfig() (Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STORYCAST")
	v.AutomaticEnv()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATA_DIR", "storycast-data")

	cfg := Config{
		Port:    v.GetInt("PORT"),
		DataDir: v.GetString("DATA_DIR"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("data dir must not be empty")
	}
	return cfg, nil
}
