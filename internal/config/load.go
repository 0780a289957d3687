package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "AGRINATHI"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows about, so every key
	// without a default has to be bound explicitly.
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"google.api_key",
	"google.speech_endpoint",
	"google.translate_endpoint",
	"google.tts_endpoint",
	"llm.gemini_api_key",
	"weather.openweather_api_key",
	"redis.addr",
	"redis.password",
	"influx.url",
	"influx.token",
	"influx.org",
	"influx.bucket",
	"mqtt.broker",
	"mqtt.client_id",
	"mqtt.username",
	"mqtt.password",
	"knowledge.extra_data_path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_upload_size", 10<<20)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)

	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.cache_ttl", "30m")

	v.SetDefault("redis.db", 0)
	v.SetDefault("mqtt.client_id", "agrinathi-api")
	v.SetDefault("mqtt.topic_prefix", "agrinathi")

	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.open_timeout", "30s")
	v.SetDefault("resilience.retry_max_elapsed", "10s")
	v.SetDefault("resilience.retry_max_attempts", 2)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)
}
