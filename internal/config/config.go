package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  string  `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis    Redis   `yaml:"redis"`
	Session  Session `yaml:"session"`
	CORS     CORS    `yaml:"cors"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Session struct {
	CookieName    string        `yaml:"cookie-name" env:"SESSION_COOKIE_NAME" env-default:"user_session"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:9090"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the config file and applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Storage != StorageMemory && config.Storage != StorageRedis {
		return nil, fmt.Errorf("unknown storage %q", config.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
