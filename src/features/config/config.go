package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string      `yaml:"libraryPath" validate:"required"`
	ScratchPath string      `yaml:"scratchPath" validate:"required"`
	Logger      Logger      `yaml:"logger"`
	Acquisition Acquisition `yaml:"acquisition"`
	Metadata    Metadata    `yaml:"metadata"`
	Lyrics      Lyrics      `yaml:"lyrics"`
	Artwork     Artwork     `yaml:"artwork"`
	Placement   Placement   `yaml:"placement"`
	Database    Database    `yaml:"database"`
	Metrics     Metrics     `yaml:"metrics"`
	Watch       Watch       `yaml:"watch"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

// Acquisition holds the settings of the download engine.
type Acquisition struct {
	Tool               string `yaml:"tool" validate:"required"`
	AudioFormat        string `yaml:"audio_format" validate:"required"`
	AttemptTimeoutSecs int    `yaml:"attempt_timeout_secs" validate:"gte=0"`
	SettleMillis       int    `yaml:"settle_ms" validate:"gte=0"`
	RetryDelayMillis   int    `yaml:"retry_delay_ms" validate:"gte=0"`
	RetryJitterMillis  int    `yaml:"retry_jitter_ms" validate:"gte=0"`
	MinFileSize        int64  `yaml:"min_file_size" validate:"gte=0"`
}

// Metadata holds the configuration for metadata providers
type Metadata struct {
	Enrich    bool                `yaml:"enrich"`
	Providers map[string]Provider `yaml:"providers"`
}

// Provider holds configuration for individual metadata providers
type Provider struct {
	Enabled  bool    `yaml:"enabled"`
	ClientID *string `yaml:"client_id,omitempty"`
	Secret   *string `yaml:"secret,omitempty"`
}

// Lyrics holds the configuration for lyrics providers
type Lyrics struct {
	Enabled   bool                `yaml:"enabled"`
	Providers map[string]Provider `yaml:"providers"`
}

// Artwork holds configuration for artwork handling
type Artwork struct {
	Embedded EmbeddedArtwork `yaml:"embedded"`
	// Folder also saves cover.jpg next to the album's tracks.
	Folder   bool            `yaml:"folder"`
}

// EmbeddedArtwork holds configuration for embedded artwork
type EmbeddedArtwork struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Quality int  `yaml:"quality" validate:"gte=0,lte=100"`
}

// Placement controls how files are named inside the library.
type Placement struct {
	Asciify     bool   `yaml:"asciify"`
	Placeholder string `yaml:"placeholder"`
}

// Database holds the configuration for the history database
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Metrics holds the prometheus textfile export settings. Empty disables it.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Watch holds the inbox watcher settings
type Watch struct {
	DebounceSecs int  `yaml:"debounce_secs" validate:"gte=0"`
	KeepOriginal bool `yaml:"keep_original"`
}

// ProviderEnabled reports whether a named provider is switched on.
func (m Metadata) ProviderEnabled(name string) bool {
	p, ok := m.Providers[name]
	return ok && p.Enabled
}

// Value dereferences an optional secret.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
