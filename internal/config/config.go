package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Engine EngineConfig `mapstructure:"engine"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// FeedConfig points at the detection feed endpoint. An empty URL means no
// real feed is configured and every session is synthetic.
type FeedConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RedisConfig configures the optional Redis session store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EngineConfig holds default filter parameters applied when a request
// supplies none.
type EngineConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	Window              string  `mapstructure:"window"`
}

// LoadConfig reads configuration from config.yaml and APP_* environment
// variables, falling back to defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/cutline-analytics")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("feed.url", "")
	viper.SetDefault("feed.timeout_seconds", 10)
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("engine.confidence_threshold", 0.7)
	viper.SetDefault("engine.window", "all")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine: defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
