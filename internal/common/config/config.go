package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
	Redis         RedisConfig        `mapstructure:"redis"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP invocation endpoint settings.
type ServerConfig struct {
	Port            int  `mapstructure:"port"`
	ReadTimeout     int  `mapstructure:"read_timeout"`   // milliseconds
	WriteTimeout    int  `mapstructure:"write_timeout"`  // milliseconds
	InvokeTimeout   int  `mapstructure:"invoke_timeout"` // per-invocation budget, milliseconds
	StrictArguments bool `mapstructure:"strict_arguments"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RateLimitConfig holds the per-client fixed-window limiter settings.
// The window counter lives in Redis so the limit holds across replicas.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerWindow int  `mapstructure:"requests_per_window"`
	Window            int  `mapstructure:"window"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig holds settings for the confirmation notifier.
type NotificationConfig struct {
	Email struct {
		Enabled        bool   `mapstructure:"enabled"`
		FromEmail      string `mapstructure:"from_email"`
		RecipientEmail string `mapstructure:"recipient_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// Enabled reports whether any notification channel is switched on.
func (n NotificationConfig) Enabled() bool {
	return n.Email.Enabled || n.SMS.Enabled
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
