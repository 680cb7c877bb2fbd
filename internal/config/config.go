package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when CONFIG_FILE is unset. It is optional.
const DefaultConfigFile = "inmuebles.yaml"

type Config struct {
	ListenAddr   string   `yaml:"listen_addr"`
	DatabaseURL  string   `yaml:"database_url"`
	DatabaseName string   `yaml:"database_name"`
	UploadDir    string   `yaml:"upload_dir"`
	CORSOrigins  []string `yaml:"cors_origins"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	LogFile      string   `yaml:"log_file"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		ListenAddr:   ":8000",
		DatabaseName: "inmuebles",
		UploadDir:    "uploads",
		CORSOrigins:  []string{"*"},
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Load builds the configuration from defaults, then the optional YAML file,
// then the environment. A .env file in the working directory is loaded into
// the environment first without overriding variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(getEnv("CONFIG_FILE", DefaultConfigFile))
}

// LoadFrom is Load without the .env step, reading YAML from path.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, path); err != nil {
		return nil, err
	}
	loadEnv(&cfg)

	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) {
	// PORT is what most hosting platforms set; LISTEN_ADDR wins when both are.
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		cfg.ListenAddr = ":" + port
	}
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseName = getEnv("DATABASE_NAME", cfg.DatabaseName)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok && origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
