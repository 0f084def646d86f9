package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Token    TokenConfig    `yaml:"token"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
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
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// BookingConfig carries the admission and validation policy. The grace
// windows and horizon are product policy values, kept configurable rather
// than baked in.
type BookingConfig struct {
	HorizonDays        int    `yaml:"horizon_days"`
	ModifyCutoffHours  int    `yaml:"modify_cutoff_hours"`
	EarlyGraceMinutes  int    `yaml:"early_grace_minutes"`
	LateGraceMinutes   int    `yaml:"late_grace_minutes"`
	StationLockTTLSecs int    `yaml:"station_lock_ttl_seconds"`
	DefaultZone        string `yaml:"default_zone"`
}

func (b BookingConfig) Horizon() time.Duration {
	return time.Duration(b.HorizonDays) * 24 * time.Hour
}

func (b BookingConfig) ModifyCutoff() time.Duration {
	return time.Duration(b.ModifyCutoffHours) * time.Hour
}

func (b BookingConfig) EarlyGrace() time.Duration {
	return time.Duration(b.EarlyGraceMinutes) * time.Minute
}

func (b BookingConfig) LateGrace() time.Duration {
	return time.Duration(b.LateGraceMinutes) * time.Minute
}

func (b BookingConfig) StationLockTTL() time.Duration {
	return time.Duration(b.StationLockTTLSecs) * time.Second
}

type TokenConfig struct {
	Secret          string `yaml:"secret"`
	LifetimeMinutes int    `yaml:"session_token_lifetime_minutes"`
}

// Lifetime is how long a token stays structurally valid past the session
// end (exp = session end + Lifetime).
func (t TokenConfig) Lifetime() time.Duration {
	return time.Duration(t.LifetimeMinutes) * time.Minute
}

type WorkerConfig struct {
	SweepMinutes int `yaml:"sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.HorizonDays == 0 {
		c.Booking.HorizonDays = 7
	}
	if c.Booking.ModifyCutoffHours == 0 {
		c.Booking.ModifyCutoffHours = 12
	}
	if c.Booking.EarlyGraceMinutes == 0 {
		c.Booking.EarlyGraceMinutes = 15
	}
	if c.Booking.LateGraceMinutes == 0 {
		c.Booking.LateGraceMinutes = 30
	}
	if c.Booking.StationLockTTLSecs == 0 {
		c.Booking.StationLockTTLSecs = 10
	}
	if c.Token.LifetimeMinutes == 0 {
		c.Token.LifetimeMinutes = 30
	}
	if c.Worker.SweepMinutes == 0 {
		c.Worker.SweepMinutes = 5
	}
}
