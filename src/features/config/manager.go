package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
}

// NewManager creates a new Manager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update replaces the configuration, used by CLI flag overrides.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.config = config

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"library_path_changed", oldConfig.LibraryPath != config.LibraryPath,
			"audio_format_changed", oldConfig.Acquisition.AudioFormat != config.Acquisition.AudioFormat,
			"enrich_changed", oldConfig.Metadata.Enrich != config.Metadata.Enrich,
		)
	}
}

// Save writes the current configuration to the specified file path.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create config file", "path", path, "error", err)
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.config); err != nil {
		slog.Error("failed to encode config", "path", path, "error", err)
		return err
	}

	slog.Info("Configuration saved successfully", "path", path)
	return nil
}

// EnsureDirectories creates the library and scratch directories if they don't exist.
func (m *Manager) EnsureDirectories() error {
	cfg := m.Get()

	if err := os.MkdirAll(cfg.LibraryPath, 0755); err != nil {
		return fmt.Errorf("failed to create library directory %s: %w", cfg.LibraryPath, err)
	}
	if err := os.MkdirAll(cfg.ScratchPath, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory %s: %w", cfg.ScratchPath, err)
	}

	slog.Debug("Required directories created/verified", "library", cfg.LibraryPath, "scratch", cfg.ScratchPath)
	return nil
}

// redactedCfg gets a copy of the Config with provider secrets masked
func (m *Manager) redactedCfg() Config {
	cfgCpy := *m.config
	cfgCpy.Metadata.Providers = redactProviders(cfgCpy.Metadata.Providers)
	cfgCpy.Lyrics.Providers = redactProviders(cfgCpy.Lyrics.Providers)
	return cfgCpy
}

func redactProviders(in map[string]Provider) map[string]Provider {
	out := make(map[string]Provider, len(in))
	redacted := "<redacted>"
	for name, p := range in {
		if p.Secret != nil {
			p.Secret = &redacted
		}
		out[name] = p
	}
	return out
}

// GetYAML returns the current configuration as YAML, without secrets.
func (m *Manager) GetYAML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
