package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración del proceso.
// La clave JWT se pasa explícita a los constructores de issuer/verifier;
// nunca se lee desde acá como estado global mutable.
type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	DBDSN         string   `mapstructure:"DB_DSN"`
	JWTSecret     string   `mapstructure:"JWT_SECRET"`
	TokenTTLHours int      `mapstructure:"TOKEN_TTL_HOURS"`
	LogLevel      string   `mapstructure:"LOG_LEVEL"`
	LogFormat     string   `mapstructure:"LOG_FORMAT"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	SeedAdmin     bool     `mapstructure:"SEED_ADMIN"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SEED_ADMIN", false)

	// Bind explícito para que Unmarshal vea las env vars.
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DB_DSN")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_HOURS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FORMAT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SEED_ADMIN")

	// .env es opcional; si no está, seguimos con env vars puras.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		// Solo para desarrollo local; en producción falla arriba.
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
