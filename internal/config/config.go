package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Socket   Socket `yaml:"socket"`
	Redis    Redis  `yaml:"redis"`
}

type Socket struct {
	Host           string        `yaml:"host" env:"SOCKET_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"SOCKET_PORT" env-default:"5555"`
	MaxMessageSize int           `yaml:"max-message-size" env:"SOCKET_MAX_MESSAGE_SIZE" env-default:"65536"`
	WriteTimeout   time.Duration `yaml:"write-timeout" env:"SOCKET_WRITE_TIMEOUT" env-default:"5s"`
}

type Redis struct {
	Enabled     bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	HistorySize int64  `yaml:"history-size" env:"REDIS_HISTORY_SIZE" env-default:"100"`
}

// Load - reads the yaml file, environment variables override it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Socket) GetAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
