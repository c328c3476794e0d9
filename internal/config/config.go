// Package config loads the settings the commands pass to the packages that
// connect or listen: struct defaults, optionally overridden by a YAML file,
// then by environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables a transitcore service needs at
// startup. The storage and server sections are passed to the packages that
// connect or listen; WalkSpeedMPS and TransferPenaltySeconds are loaded and
// overridable but no other package reads them: the router walks at the
// compile-time router.WalkSpeedMPS and the directions builder uses its own
// compiled turn table.
type Config struct {
	// Postgres is the source database the offline preprocessor reads from.
	Postgres PostgresConfig `yaml:"postgres"`
	// Redis caches directions responses keyed by query.
	Redis RedisConfig `yaml:"redis"`
	// Snapshot is the on-disk preprocessed graph file.
	Snapshot SnapshotConfig `yaml:"snapshot"`
	// Server is the HTTP front's listen settings.
	Server ServerConfig `yaml:"server"`

	// WalkSpeedMPS is a walking speed setting; the pedestrian router does
	// not read it (see router.WalkSpeedMPS).
	WalkSpeedMPS float64 `yaml:"walk_speed_mps"`
	// TransferPenaltySeconds is a per-boarding penalty setting (GTFS
	// minimum-transfer-time analogue); no router reads it, and the
	// router.Strategy penalties are fixed per named strategy.
	TransferPenaltySeconds float64 `yaml:"transfer_penalty_seconds"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type SnapshotConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in defaults, the values ApplyEnv keeps when a
// variable is unset and it is called on a default Config.
func Default() *Config {
	return &Config{
		Postgres: PostgresConfig{Host: "localhost", Port: 5432, User: "transitcore", Database: "transitcore", SSLMode: "disable"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, TTL: 10 * time.Minute},
		Snapshot: SnapshotConfig{Path: "transitcore.snapshot.db"},
		Server:   ServerConfig{Addr: ":8080"},

		WalkSpeedMPS:           1.4,
		TransferPenaltySeconds: 0,
	}
}

// LoadFile reads a YAML config file over the defaults; fields absent from
// the file keep their default value.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg in place from environment variables, using a
// POSTGRES_*/REDIS_*/SERVER_* naming convention plus CACHE_TTL and
// SNAPSHOT_PATH.
func (c *Config) ApplyEnv() {
	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnvInt("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.Database = getEnv("POSTGRES_DB", c.Postgres.Database)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Redis.TTL = d
		}
	}

	c.Snapshot.Path = getEnv("SNAPSHOT_PATH", c.Snapshot.Path)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
