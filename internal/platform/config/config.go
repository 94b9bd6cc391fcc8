package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	dErrors "carehub/pkg/domain-errors"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// DevClientOrigin is the Vite dev server the web client runs on; it is always
// allowed in addition to CORS_ORIGIN.
const DevClientOrigin = "http://localhost:5173"

// Server captures HTTP server level configuration. It is built once in main
// and passed down explicitly; nothing below main reads the environment.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string

	JWTSecret          string
	TokenTTL           time.Duration // 0 = tokens never expire
	CookieName         string
	CookieSecure       bool
	BcryptCost         int
	ExposePasswordHash bool

	StoreBackend  string
	DatabaseURL   string
	MongoURL      string
	MongoDatabase string

	CORSOrigins    []string
	BodyLimitBytes int64
	RequestTimeout time.Duration
}

// Defaults returns the configuration used when no environment is set.
// JWTSecret has no default.
func Defaults() Server {
	return Server{
		Addr:           ":8000",
		Environment:    "development",
		LogLevel:       "info",
		CookieName:     "token",
		BcryptCost:     12,
		StoreBackend:   StoreMemory,
		MongoDatabase:  "carehub",
		CORSOrigins:    []string{DevClientOrigin},
		BodyLimitBytes: 10 << 20,
		RequestTimeout: 30 * time.Second,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup is FromEnv over an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Server, error) {
	cfg := Defaults()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := get("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := get("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := get("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	cfg.JWTSecret = get("JWT_SECRET")
	if v := get("COOKIE_NAME"); v != "" {
		cfg.CookieName = v
	}
	if v := get("STORE_BACKEND"); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	cfg.DatabaseURL = get("DATABASE_URL")
	cfg.MongoURL = get("MONGO_URL")
	if v := get("MONGO_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := get("CORS_ORIGIN"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" && origin != DevClientOrigin {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	var err error
	if cfg.TokenTTL, err = parseDuration(get("TOKEN_TTL"), 0, "TOKEN_TTL"); err != nil {
		return Server{}, err
	}
	if cfg.RequestTimeout, err = parseDuration(get("REQUEST_TIMEOUT"), cfg.RequestTimeout, "REQUEST_TIMEOUT"); err != nil {
		return Server{}, err
	}
	if cfg.CookieSecure, err = parseBool(get("COOKIE_SECURE"), false, "COOKIE_SECURE"); err != nil {
		return Server{}, err
	}
	if cfg.ExposePasswordHash, err = parseBool(get("EXPOSE_PASSWORD_HASH"), false, "EXPOSE_PASSWORD_HASH"); err != nil {
		return Server{}, err
	}
	if v := get("BCRYPT_COST"); v != "" {
		if cfg.BcryptCost, err = strconv.Atoi(v); err != nil {
			return Server{}, invalid("BCRYPT_COST", v)
		}
	}
	if v := get("BODY_LIMIT_BYTES"); v != "" {
		if cfg.BodyLimitBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Server{}, invalid("BODY_LIMIT_BYTES", v)
		}
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (s Server) Validate() error {
	if s.JWTSecret == "" {
		return dErrors.New(dErrors.CodeMisconfigured, "JWT_SECRET is required")
	}
	if s.TokenTTL < 0 {
		return dErrors.New(dErrors.CodeMisconfigured, "TOKEN_TTL must not be negative")
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return dErrors.New(dErrors.CodeMisconfigured, "BCRYPT_COST must be between 4 and 31")
	}
	switch s.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if s.DatabaseURL == "" {
			return dErrors.New(dErrors.CodeMisconfigured, "DATABASE_URL is required for the postgres store")
		}
	case StoreMongo:
		if s.MongoURL == "" {
			return dErrors.New(dErrors.CodeMisconfigured, "MONGO_URL is required for the mongo store")
		}
	default:
		return dErrors.New(dErrors.CodeMisconfigured, fmt.Sprintf("unknown STORE_BACKEND %q", s.StoreBackend))
	}
	return nil
}

func parseDuration(v string, def time.Duration, key string) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, invalid(key, v)
	}
	return d, nil
}

func parseBool(v string, def bool, key string) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalid(key, v)
	}
	return b, nil
}

func invalid(key, value string) error {
	return dErrors.New(dErrors.CodeMisconfigured, fmt.Sprintf("invalid %s: %q", key, value))
}
