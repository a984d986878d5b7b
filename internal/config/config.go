package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Profit   ProfitConfig
	Log      LogConfig
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	Port                  int
	ReadTimeoutSeconds    int      `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds   int      `mapstructure:"write_timeout_seconds"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	CORSOrigins           []string `mapstructure:"cors_origins"`
}

// DatabaseConfig defines the database connection settings.
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RedisConfig defines the optional response cache. An empty URL disables it.
type RedisConfig struct {
	URL        string
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// CacheConfig defines the in-process cache settings.
type CacheConfig struct {
	FixtureInfoTTLMinutes int `mapstructure:"fixture_info_ttl_minutes"`
}

// ProfitConfig defines analytics presentation settings.
type ProfitConfig struct {
	Timezone string
}

// LogConfig defines the logger settings.
type LogConfig struct {
	Level string
}

// DSN builds a postgres connection URL from the settings.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// ResponseTTL returns the Redis cache TTL.
func (r RedisConfig) ResponseTTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// FixtureInfoTTL returns how long fixture metadata stays cached in process.
func (c CacheConfig) FixtureInfoTTL() time.Duration {
	return time.Duration(c.FixtureInfoTTLMinutes) * time.Minute
}

// Location resolves the configured timezone, falling back to UTC.
func (p ProfitConfig) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.request_timeout_seconds", 30)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "oddsai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl_seconds", 60)

	v.SetDefault("cache.fixture_info_ttl_minutes", 10)

	v.SetDefault("profit.timezone", "UTC")

	v.SetDefault("log.level", "info")
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded into the environment first when present,
// and a missing config.yaml is not an error.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("loading .env: %w", err)
			return
		}
		err = nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
