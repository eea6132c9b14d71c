package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the API server
type Config struct {
	Port string `yaml:"port"`

	// Database
	DBDriver   string `yaml:"db_driver"`
	DBURL      string `yaml:"database_url"`
	DBLogLevel string `yaml:"db_log_level"`

	// Logging
	LogMode string `yaml:"log_mode"`
	GinMode string `yaml:"gin_mode"`

	// HTTP
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	GraphiQLEnabled    bool     `yaml:"graphiql_enabled"`

	// Tracing
	TracingExporter string `yaml:"tracing_exporter"`
	ServiceName     string `yaml:"service_name"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Port:               "8008",
		DBDriver:           "sqlite",
		DBURL:              "project-management.db",
		DBLogLevel:         "warn",
		LogMode:            "dev",
		GinMode:            "debug",
		CORSAllowedOrigins: []string{"*"},
		GraphiQLEnabled:    true,
		TracingExporter:    "none",
		ServiceName:        "project-management-api",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and finally environment variables. Variables missing from
// the process environment are taken from the dotenv file named by ENV_FILE
// (default ".env") when it exists.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	env, err := readDotenv(getEnvDefault("ENV_FILE", ".env"))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env envSource) {
	c.Port = env.get("PORT", c.Port)
	c.DBDriver = strings.ToLower(env.get("DB_DRIVER", c.DBDriver))
	c.DBURL = env.get("DATABASE_URL", c.DBURL)
	c.DBLogLevel = strings.ToLower(env.get("DB_LOG_LEVEL", c.DBLogLevel))
	c.LogMode = env.get("LOG_MODE", c.LogMode)
	c.GinMode = env.get("GIN_MODE", c.GinMode)
	c.CORSAllowedOrigins = env.getList("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
	c.GraphiQLEnabled = env.getBool("GRAPHIQL_ENABLED", c.GraphiQLEnabled)
	c.TracingExporter = strings.ToLower(env.get("TRACING_EXPORTER", c.TracingExporter))
	c.ServiceName = env.get("OTEL_SERVICE_NAME", c.ServiceName)
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch c.TracingExporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported TRACING_EXPORTER %q", c.TracingExporter)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// envSource resolves a variable from the process environment first, then
// from values read out of a dotenv file. The process environment is never
// modified.
type envSource map[string]string

func readDotenv(path string) (envSource, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return envSource{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return envSource(vars), nil
}

func (e envSource) lookup(key string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return strings.TrimSpace(e[key])
}

func getEnvDefault(key, fallback string) string {
	return envSource(nil).get(key, fallback)
}

func (e envSource) get(key, fallback string) string {
	if v := e.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (e envSource) getBool(key string, fallback bool) bool {
	v := e.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (e envSource) getList(key string, fallback []string) []string {
	v := e.lookup(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
