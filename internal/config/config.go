package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Google     GoogleConfig     `mapstructure:"google"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Weather    WeatherConfig    `mapstructure:"weather" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Influx     InfluxConfig     `mapstructure:"influx"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Resilience ResilienceConfig `mapstructure:"resilience" validate:"required"`
	Task       TaskConfig       `mapstructure:"task" validate:"required"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port          int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel      string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	MaxUploadSize int64  `mapstructure:"max_upload_size" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44641"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=525601"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// GoogleConfig holds the key and optional endpoint overrides for the Google
// speech, translation and text-to-speech REST APIs. An empty APIKey disables
// the live clients and every call goes straight to its fallback.
type GoogleConfig struct {
	APIKey            string `mapstructure:"api_key"`
	SpeechEndpoint    string `mapstructure:"speech_endpoint" validate:"omitempty,url"`
	TranslateEndpoint string `mapstructure:"translate_endpoint" validate:"omitempty,url"`
	TTSEndpoint       string `mapstructure:"tts_endpoint" validate:"omitempty,url"`
}

// LLMConfig contains the Gemini settings used by the plant scanner.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	MaxRetries   int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
}

// WeatherConfig contains OpenWeatherMap settings.
type WeatherConfig struct {
	OpenWeatherAPIKey string        `mapstructure:"openweather_api_key"`
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"required,gt=0"`
}

// RedisConfig points at the weather cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// InfluxConfig enables query analytics when URL is set.
type InfluxConfig struct {
	URL    string `mapstructure:"url" validate:"omitempty,url"`
	Token  string `mapstructure:"token" validate:"required_with=URL"`
	Org    string `mapstructure:"org" validate:"required_with=URL"`
	Bucket string `mapstructure:"bucket" validate:"required_with=URL"`
}

// MQTTConfig enables query notifications when Broker is set.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id" validate:"required_with=Broker"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix" validate:"required_with=Broker"`
}

// ResilienceConfig tunes the circuit breakers and retries around external APIs.
type ResilienceConfig struct {
	FailureThreshold uint32        `mapstructure:"failure_threshold" validate:"required,gt=0"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout" validate:"required,gt=0"`
	RetryMaxElapsed  time.Duration `mapstructure:"retry_max_elapsed" validate:"required,gt=0"`
	RetryMaxAttempts uint64        `mapstructure:"retry_max_attempts" validate:"gte=0,lte=10"`
}

// TaskConfig contains background task processing settings.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// KnowledgeConfig points at an optional JSON file of extra pest and disease entries.
type KnowledgeConfig struct {
	ExtraDataPath string `mapstructure:"extra_data_path"`
}
