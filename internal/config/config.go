package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Email     EmailConfig     `mapstructure:"email"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type AppConfig struct {
	// RootDomain is the platform apex domain; tenant sites live on
	// subdomains of it unless they registered a custom domain.
	RootDomain string `mapstructure:"root_domain"`
	// SettingsFile is the path of the persisted notification settings JSON.
	SettingsFile string `mapstructure:"settings_file"`
	BaseURL      string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type WhatsAppConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PaymentConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SchedulerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Timezone         string        `mapstructure:"timezone"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
	ReminderDelay    time.Duration `mapstructure:"reminder_delay"`
	DigestHour       int           `mapstructure:"digest_hour"`
	DigestMinute     int           `mapstructure:"digest_minute"`
	BillingHour      int           `mapstructure:"billing_hour"`
	BillingMinute    int           `mapstructure:"billing_minute"`
}

// Location resolves the scheduler time zone, falling back to local time.
func (c SchedulerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No file is fine, env vars and defaults take over.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.root_domain", "salonsuite.app")
	viper.SetDefault("app.settings_file", "notification-settings.json")
	viper.SetDefault("app.base_url", "http://localhost:8080")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "salonsuite")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("jwt.expiry", time.Hour)

	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)

	viper.SetDefault("email.port", 587)

	viper.SetDefault("whatsapp.timeout", 5*time.Second)
	viper.SetDefault("payment.timeout", 5*time.Second)

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.timezone", "America/Sao_Paulo")
	viper.SetDefault("scheduler.reminder_interval", time.Minute)
	viper.SetDefault("scheduler.reminder_delay", 15*time.Second)
	viper.SetDefault("scheduler.digest_hour", 7)
	viper.SetDefault("scheduler.digest_minute", 0)
	viper.SetDefault("scheduler.billing_hour", 8)
	viper.SetDefault("scheduler.billing_minute", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
}
