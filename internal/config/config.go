package config

import (
	"os"
	"strings"
)

// Config agrupa la configuración por env vars del servicio.
type Config struct {
	Port     string
	DBDSN    string
	TokenKey string
	FilesURL string
	AppEnv   string
	LogLevel string
}

// Load lee la configuración desde el entorno con defaults de dev.
// TOKEN_KEY no tiene default en prod; el caller decide si es fatal.
func Load() Config {
	return Config{
		Port:     getenv("PORT", "8080"),
		DBDSN:    os.Getenv("DB_DSN"),
		TokenKey: os.Getenv("TOKEN_KEY"),
		FilesURL: getenv("FILES_BASE_URL", "/files"),
		AppEnv:   getenv("APP_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

// IsDev indica si corremos en modo dev (repos en memoria, secreto por defecto).
func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "dev")
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
