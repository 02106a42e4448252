package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultPlaceholderImage = "https://picsum.photos/seed/perfume/200/300"

type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	Host       string
	ServerPort int

	DatabaseURL string
	SQLitePath  string

	StaticDir   string
	DevProxyURL string

	PlaceholderImage  string
	HashSeedPasswords bool

	JWTSecret    []byte
	TokenTTL     time.Duration
	EnforceRoles bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "parfum"),
		Env:         EnvDefault("APP_ENV", "development"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		Host:       EnvDefault("HOST", "0.0.0.0"),
		ServerPort: EnvIntDefault("SERVER_PORT", 3000),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  EnvDefault("SQLITE_PATH", "perfume.db"),

		StaticDir:   EnvDefault("STATIC_DIR", "dist"),
		DevProxyURL: os.Getenv("DEV_PROXY_URL"),

		PlaceholderImage:  EnvDefault("PLACEHOLDER_IMAGE", DefaultPlaceholderImage),
		HashSeedPasswords: EnvBoolDefault("HASH_SEED_PASSWORDS", false),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:     EnvDurationDefault("TOKEN_TTL", 12*time.Hour),
		EnforceRoles: EnvBoolDefault("ENFORCE_ROLES", false),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),
	}
}

func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) ListenAddr() string {
	return c.Host + ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// MustNonEmpty stops startup when a setting the chosen mode depends on is blank.
func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("config: %s is required in this mode but empty", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("config: %s is required when ENFORCE_ROLES is on", envName)
	}
}
