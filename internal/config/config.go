package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment    string   `env:"ENVIRONMENT,default=development"`
	DatabaseURL    string   `env:"DATABASE_URL,required"`
	AdminAddresses []string `env:"ADMIN_ADDRESSES"`
	Port           int      `env:"PORT,default=8080"`
	LogLevel       string   `env:"LOG_LEVEL,default=info"`
	CORSOrigins    []string `env:"CORS_ORIGINS"`

	// HTTP server timeouts
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT,default=60s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("ENVIRONMENT must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	if c.Environment == EnvProduction && len(c.AdminAddresses) == 0 {
		return fmt.Errorf("ADMIN_ADDRESSES must not be empty in production")
	}
	for _, addr := range c.AdminAddresses {
		if !strings.HasPrefix(strings.ToLower(addr), "0x") {
			return fmt.Errorf("admin address %q is not a hex chain address", addr)
		}
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	return nil
}

// RequireHTTPS reports whether registered action endpoints must use an
// encrypted transport. Development permits plain http for local testing.
func (c *Config) RequireHTTPS() bool {
	return c.Environment == EnvProduction
}
