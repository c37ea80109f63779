package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/irisform/assets"
	appconfig "github.com/doeshing/irisform/internal/application/config"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/pkg/filesystem"
	"github.com/doeshing/irisform/internal/ports"
)

// Environment overrides.
const (
	EnvConfigPath = "IRISFORM_CONFIG"
	EnvEndpoint   = "IRISFORM_ENDPOINT"
)

// FileLoader loads YAML configuration from ~/.irisform/config.yaml (overridable via IRISFORM_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg = applyEnv(hydrateDefaults(cfg))
	if err := appconfig.Validate(cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the config file location in effect.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// DefaultConfig parses the embedded default configuration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	_ = yaml.Unmarshal(assets.DefaultConfigYAML, &cfg)
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Endpoint.URL == "" {
		cfg.Endpoint.URL = domain.DefaultEndpointURL
	}
	if cfg.Endpoint.TimeoutSeconds == 0 {
		cfg.Endpoint.TimeoutSeconds = domain.DefaultTimeoutSeconds
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = domain.DefaultStorageDriver
	}
	if cfg.History.TimestampLayout == "" {
		cfg.History.TimestampLayout = domain.DefaultTimestampLayout
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	return cfg
}

func applyEnv(cfg domain.Config) domain.Config {
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		cfg.Endpoint.URL = endpoint
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
