// Package config loads runtime settings from the environment, with an
// optional .env file, under the SURA_ prefix.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every variable name ("SURA_ADDR").
const EnvPrefix = "SURA"

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every setting the server needs.
type Config struct {
	Addr            string
	APIOrigin       string
	APINamespace    string
	APITimeout      time.Duration
	Env             string
	SessionHashKey  []byte
	SessionBlockKey []byte
	CSRFKey         []byte
	AuditDB         string
	ResendKey       string
	MailFrom        string
	LogLevel        slog.Level
	SlowRequestMs   int
	SlowBackendMs   int
	RateLimit       int
	TrustedOrigins  []string
}

// IsProduction reports whether cookies must be Secure and keys explicit.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// ErrMissingKey is returned in production when a secret key is not set.
var ErrMissingKey = errors.New("key must be set in production")

func defaults(v *viper.Viper) {
	v.SetDefault("addr", ":3000")
	v.SetDefault("api_origin", "http://localhost:8080")
	v.SetDefault("api_namespace", "apisura8")
	v.SetDefault("api_timeout", "10s")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("session_hash_key", "")
	v.SetDefault("session_block_key", "")
	v.SetDefault("csrf_key", "")
	v.SetDefault("audit_db", "sura-audit.db")
	v.SetDefault("resend_key", "")
	v.SetDefault("mail_from", "Sura <notificaciones@sura.local>")
	v.SetDefault("log_level", "info")
	v.SetDefault("slow_request_ms", 200)
	v.SetDefault("slow_backend_ms", 300)
	v.SetDefault("rate_limit", 30)
	v.SetDefault("trusted_origins", "")
}

// Load reads dotenv (when the file exists) and the process environment.
// PRE: dotenv may be empty or point to a missing file
// POST: Returns a complete Config; development gets random keys when unset
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat %s: %w", dotenv, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	defaults(v)
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("api_timeout"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid %s_API_TIMEOUT %q", EnvPrefix, v.GetString("api_timeout"))
	}

	cfg := Config{
		Addr:          v.GetString("addr"),
		APIOrigin:     strings.TrimRight(v.GetString("api_origin"), "/"),
		APINamespace:  strings.Trim(v.GetString("api_namespace"), "/"),
		APITimeout:    timeout,
		Env:           strings.ToLower(v.GetString("env")),
		AuditDB:       v.GetString("audit_db"),
		ResendKey:     v.GetString("resend_key"),
		MailFrom:      v.GetString("mail_from"),
		LogLevel:      ParseLevel(v.GetString("log_level")),
		SlowRequestMs: v.GetInt("slow_request_ms"),
		SlowBackendMs: v.GetInt("slow_backend_ms"),
		RateLimit:     v.GetInt("rate_limit"),
	}
	for _, o := range strings.Split(v.GetString("trusted_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.TrustedOrigins = append(cfg.TrustedOrigins, o)
		}
	}

	keys := []struct {
		name string
		size int
		dst  *[]byte
	}{
		{"session_hash_key", 32, &cfg.SessionHashKey},
		{"session_block_key", 32, &cfg.SessionBlockKey},
		{"csrf_key", 32, &cfg.CSRFKey},
	}
	for _, k := range keys {
		key, err := loadKey(v.GetString(k.name), k.size, cfg.IsProduction())
		if err != nil {
			return Config{}, fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(k.name), err)
		}
		*k.dst = key
	}
	return cfg, nil
}

// loadKey decodes a hex key, or generates one outside production.
func loadKey(hexKey string, size int, production bool) ([]byte, error) {
	if hexKey == "" {
		if production {
			return nil, ErrMissingKey
		}
		key := make([]byte, size)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	if len(key) != size {
		return nil, fmt.Errorf("want %d bytes, got %d", size, len(key))
	}
	return key, nil
}

// ParseLevel maps a level name to slog.Level; unknown names are Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
