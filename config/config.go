package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Push     PushConfig     `yaml:"push"`
	Booking  BookingConfig  `yaml:"booking"`
	Payouts  PayoutsConfig  `yaml:"payouts"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	EventsTopic        string   `yaml:"events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type PushConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

type BookingConfig struct {
	PropertiesCacheTTL int `yaml:"properties_cache_ttl_seconds"`
	RatingCacheTTL     int `yaml:"rating_cache_ttl_seconds"`
	LockTTLSeconds     int `yaml:"lock_ttl_seconds"`
}

type PayoutsConfig struct {
	DelayDays int    `yaml:"delay_days"`
	Currency  string `yaml:"currency"`
}

type WorkerConfig struct {
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
	PayoutSweepMinutes     int `yaml:"payout_sweep_minutes"`
}

func (b BookingConfig) PropertiesTTL() time.Duration {
	return time.Duration(b.PropertiesCacheTTL) * time.Second
}

func (b BookingConfig) RatingTTL() time.Duration {
	return time.Duration(b.RatingCacheTTL) * time.Second
}

func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

func (p PayoutsConfig) Delay() time.Duration {
	return time.Duration(p.DelayDays) * 24 * time.Hour
}

// LoadConfig reads .env (if present), then the YAML file at path, then applies
// secret overrides from the environment.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DATABASE_PASSWORD": &c.Database.Password,
		"JWT_SECRET":        &c.Auth.JWTSecret,
		"S3_ACCESS_KEY":     &c.Storage.AccessKey,
		"S3_SECRET_KEY":     &c.Storage.SecretKey,
		"FCM_CREDENTIALS":   &c.Push.CredentialsFile,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Booking.PropertiesCacheTTL == 0 {
		c.Booking.PropertiesCacheTTL = 60
	}
	if c.Booking.RatingCacheTTL == 0 {
		c.Booking.RatingCacheTTL = 300
	}
	if c.Booking.LockTTLSeconds == 0 {
		c.Booking.LockTTLSeconds = 10
	}
	if c.Payouts.DelayDays == 0 {
		c.Payouts.DelayDays = 7
	}
	if c.Payouts.Currency == "" {
		c.Payouts.Currency = "USD"
	}
	if c.Worker.CompletionSweepMinutes == 0 {
		c.Worker.CompletionSweepMinutes = 15
	}
	if c.Worker.PayoutSweepMinutes == 0 {
		c.Worker.PayoutSweepMinutes = 60
	}
}
