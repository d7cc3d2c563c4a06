package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// setProviderSecret sets the secret for a provider from an environment variable
func setProviderSecret(providers *map[string]Provider, providerName, envVar string) {
	key := os.Getenv(envVar)
	if key == "" {
		return
	}
	if *providers == nil {
		*providers = make(map[string]Provider)
	}
	provider := (*providers)[providerName]
	provider.Secret = &key
	(*providers)[providerName] = provider
}

// setProviderClientID sets the client id for a provider from an environment variable
func setProviderClientID(providers *map[string]Provider, providerName, envVar string) {
	id := os.Getenv(envVar)
	if id == "" {
		return
	}
	if *providers == nil {
		*providers = make(map[string]Provider)
	}
	provider := (*providers)[providerName]
	provider.ClientID = &id
	(*providers)[providerName] = provider
}

func applyEnv(cfg *Config) {
	setProviderClientID(&cfg.Metadata.Providers, "spotify", "SPOTIFY_CLIENT_ID")
	setProviderSecret(&cfg.Metadata.Providers, "spotify", "SPOTIFY_CLIENT_SECRET")
	setProviderSecret(&cfg.Metadata.Providers, "lastfm", "LASTFM_API_KEY")
	setProviderSecret(&cfg.Lyrics.Providers, "genius", "GENIUS_ACCESS_TOKEN")
}

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(defaultCfg)
		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := createDefaultConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	applyEnv(cfg)
	return NewManager(cfg), nil
}

// saveDefaultConfig saves the default configuration to the specified file path
func saveDefaultConfig(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}
