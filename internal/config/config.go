// Package config carga la configuración en capas (koanf v2):
// defaults del struct -> config.yaml opcional -> variables de entorno.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar permite apuntar a un archivo de config explícito.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Logging    LoggingConfig    `koanf:"logging"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	// DSN vacío = repos in-memory (modo dev).
	DSN string `koanf:"dsn"`
}

type SimilarityConfig struct {
	// Mode: "subprocess" lanza el script Python por request;
	// "http" llama al servicio de similitud por red.
	Mode           string        `koanf:"mode"`
	BaseURL        string        `koanf:"base_url"`
	Python         string        `koanf:"python"`
	Script         string        `koanf:"script"`
	BaselineScript string        `koanf:"baseline_script"`
	TopK           int           `koanf:"top_k"`
	Timeout        time.Duration `koanf:"timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	App    string `koanf:"app"`
}

const (
	ModeSubprocess = "subprocess"
	ModeHTTP       = "http"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second, // la búsqueda por similitud puede tardar
		},
		Similarity: SimilarityConfig{
			Mode:    ModeSubprocess,
			TopK:    20,
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			App:    "pet-finder",
		},
	}
}

// Load arma la config con las tres capas y la valida.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Alias cortos que ya usaba el deploy original.
var envAliases = map[string]string{
	"PORT":       "server.port",
	"DB_DSN":     "database.dsn",
	"PYTHON_BIN": "similarity.python",
}

// envTransform mapea SERVER_PORT -> server.port, SIMILARITY_BASE_URL ->
// similarity.base_url, etc. Devuelve "" para ignorar el resto del
// entorno del proceso.
func envTransform(s string) string {
	if path, ok := envAliases[s]; ok {
		return path
	}

	section, rest, found := strings.Cut(s, "_")
	if !found {
		return ""
	}
	switch section {
	case "SERVER", "DATABASE", "SIMILARITY", "LOGGING":
		return strings.ToLower(section) + "." + strings.ToLower(rest)
	}
	return ""
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	switch c.Similarity.Mode {
	case ModeSubprocess:
		// script/python tienen defaults en el adapter
	case ModeHTTP:
		if strings.TrimSpace(c.Similarity.BaseURL) == "" {
			return fmt.Errorf("config: similarity.base_url required when mode=http")
		}
	default:
		return fmt.Errorf("config: unknown similarity mode %q", c.Similarity.Mode)
	}
	if c.Similarity.TopK <= 0 {
		c.Similarity.TopK = 20
	}
	return nil
}
