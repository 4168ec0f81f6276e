// Package config provides the process-wide configuration for the bot store.
// It merges three sources: an optional env file (loaded into the process
// environment without overriding existing variables), the settings YAML with
// the bot's required keys, and the chat-modes YAML. The result is built once
// at startup and never reloaded.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/chatbot-docstore/internal/sysutil"
)

// Storage backends selectable through DB_TYPE.
const (
	BackendMongo  = "mongodb"
	BackendGCS    = "gcs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Default file locations, relative to the working directory.
const (
	DefaultEnvPath       = "config.env"
	DefaultConfigPath    = "config.yml"
	DefaultChatModesPath = "config/chat_modes.yml"
)

// Paths locates the files read by Load.
type Paths struct {
	EnvFile       string // ENV_PATH
	ConfigFile    string // CONFIG_PATH
	ChatModesFile string // CHAT_MODES_PATH
}

// StorageConfig selects and parameterizes the object bucket backend.
type StorageConfig struct {
	Backend       string // DB_TYPE: mongodb|gcs|sqlite|memory
	GCSProject    string // GCS_PROJECT (optional, billed/quota project)
	GCSBucket     string // GCS_BUCKET
	GCSEndpoint   string // GCS_ENDPOINT (optional, e.g. fake-gcs-server)
	MongoURI      string // derived from MONGODB_PORT
	MongoDatabase string // MONGODB_DATABASE
	SQLitePath    string // SQLITE_PATH
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	Paths Paths

	// Bot settings from the YAML file.
	Settings  Settings
	ChatModes ChatModes

	// Server
	Port              string        // PORT, just the number
	WebhookURL        string        // WEBHOOK_URL, optional
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // grace period on SIGTERM
	GinMode           string        // debug|release|test
	APIBasePath       string        // base path for API routes
	AdminToken        string        // bearer token for the API group; empty disables auth

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	Storage StorageConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// Overrides carries command-line values that take precedence over files and
// the environment. Empty fields are ignored.
type Overrides struct {
	EnvFile       string
	ConfigFile    string
	ChatModesFile string
	Port          string
}

// MustLoad loads the configuration and panics if any source is invalid.
func MustLoad(o *Overrides) Config {
	cfg, err := Load(o)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load resolves file locations, loads the env file, reads the settings and
// chat-modes YAML files, applies environment values and overrides, and
// validates the result.
//
// Precedence for PORT: CLI override > process env > env file > default.
func Load(o *Overrides) (Config, error) {
	paths := resolvePaths(o)

	if err := loadEnvFile(paths.EnvFile); err != nil {
		return Config{}, err
	}

	settings, err := LoadSettings(paths.ConfigFile)
	if err != nil {
		return Config{}, err
	}
	modes, err := LoadChatModes(paths.ChatModesFile)
	if err != nil {
		return Config{}, err
	}

	cfg := fromEnv()
	cfg.Paths = paths
	cfg.Settings = settings
	cfg.ChatModes = modes

	if o != nil && strings.TrimSpace(o.Port) != "" {
		cfg.Port = strings.TrimSpace(o.Port)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func resolvePaths(o *Overrides) Paths {
	p := Paths{
		EnvFile:       getenv("ENV_PATH", DefaultEnvPath),
		ConfigFile:    getenv("CONFIG_PATH", DefaultConfigPath),
		ChatModesFile: getenv("CHAT_MODES_PATH", DefaultChatModesPath),
	}
	if o == nil {
		return p
	}
	if o.EnvFile != "" {
		p.EnvFile = o.EnvFile
	}
	if o.ConfigFile != "" {
		p.ConfigFile = o.ConfigFile
	}
	if o.ChatModesFile != "" {
		p.ChatModesFile = o.ChatModesFile
	}
	return p
}

// loadEnvFile merges the env file into the process environment. Variables
// already set win over the file. A missing file is not an error.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("env file not found, relying on process environment")
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func fromEnv() Config {
	return Config{
		// Server
		Port:              getenv("PORT", "8000"),
		WebhookURL:        getenv("WEBHOOK_URL", ""),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		GinMode:           normalizeGinMode(getenv("GIN_MODE", "release")),
		APIBasePath:       normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),
		AdminToken:        getenv("ADMIN_TOKEN", ""),

		// Logging
		LogLevel:  normalizeLogLevel(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Storage
		Storage: StorageConfig{
			Backend:       strings.ToLower(strings.TrimSpace(getenv("DB_TYPE", BackendMongo))),
			GCSProject:    getenv("GCS_PROJECT", ""),
			GCSBucket:     getenv("GCS_BUCKET", ""),
			GCSEndpoint:   getenv("GCS_ENDPOINT", ""),
			MongoURI:      "mongodb://mongo:" + strconv.Itoa(getint("MONGODB_PORT", 27017)),
			MongoDatabase: getenv("MONGODB_DATABASE", "chatgpt_telegram_bot"),
			SQLitePath:    getenv("SQLITE_PATH", "botstore.db"),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "chatbot-docstore"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
}

func validate(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return errors.New("PORT must be numeric")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	switch cfg.Storage.Backend {
	case BackendMongo, BackendGCS, BackendSQLite, BackendMemory:
	default:
		return errors.New("DB_TYPE must be one of: mongodb, gcs, sqlite, memory")
	}
	if cfg.Storage.Backend == BackendGCS && strings.TrimSpace(cfg.Storage.GCSBucket) == "" {
		return errors.New("GCS_BUCKET must be set when DB_TYPE=gcs")
	}
	if cfg.Storage.Backend == BackendSQLite && strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
		return errors.New("SQLITE_PATH must not be empty when DB_TYPE=sqlite")
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	switch {
	case sysutil.IsTruthy(v):
		return true
	case sysutil.IsFalsy(v):
		return false
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeLogLevel(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	if l == "warning" {
		return "warn"
	}
	return l
}

func normalizeGinMode(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "debug", "release", "test":
		return m
	default:
		return "release"
	}
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
