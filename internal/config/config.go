package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only accepted in the dev environment.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Port     string         `mapstructure:"port"`
	Env      string         `mapstructure:"env"`
	// Locale picks the language of notification titles and bodies.
	Locale   string         `mapstructure:"locale"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	WS       WSConfig       `mapstructure:"ws"`
	Chat     ChatConfig     `mapstructure:"chat"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig with an empty Addr disables the unread-count cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type WSConfig struct {
	// AllowedOrigin "*" accepts any browser origin.
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

type ChatConfig struct {
	SendRate         float64 `mapstructure:"send_rate"`
	SendBurst        int     `mapstructure:"send_burst"`
	MaxMessageLength int     `mapstructure:"max_message_length"`
}

type HTTPConfig struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads .env, then an optional config.yaml, then SKILLSWAP_* environment variables.
// Nested keys map to env names with "_", e.g. SKILLSWAP_DATABASE_DSN.
func Load(fileName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("env", "dev")
	v.SetDefault("locale", "en")
	v.SetDefault("database.dsn", "host=localhost user=user password=password dbname=skillswap port=5432 sslmode=disable")
	v.SetDefault("redis.addr", "localhost:6380")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("ws.allowed_origin", "*")
	v.SetDefault("chat.send_rate", 5)
	v.SetDefault("chat.send_burst", 10)
	v.SetDefault("chat.max_message_length", DefaultMaxMessageLength)
	v.SetDefault("http.rate", 20)
	v.SetDefault("http.burst", 40)

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SKILLSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "config: read file")
		}
		log.Debug().Str("file", fileName).Msg("config file not found, using defaults and env")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot serve traffic safely.
func Validate(cfg *Config) error {
	switch {
	case cfg.Port == "":
		return errors.New("config: port is empty")
	case cfg.Locale == "":
		return errors.New("config: locale is empty")
	case cfg.Database.DSN == "":
		return errors.New("config: database dsn is empty")
	case cfg.JWT.Secret == "":
		return errors.New("config: jwt secret is empty")
	case !cfg.IsDev() && cfg.JWT.Secret == DefaultJWTSecret:
		return errors.New("config: default jwt secret outside dev")
	case cfg.Chat.MaxMessageLength <= 0:
		return errors.New("config: max message length must be positive")
	case cfg.Chat.SendRate <= 0 || cfg.Chat.SendBurst <= 0:
		return errors.New("config: chat send rate and burst must be positive")
	}
	return nil
}
