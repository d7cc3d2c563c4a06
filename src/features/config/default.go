package config

import (
	"os"
	"path/filepath"
)

// DefaultPath is ~/.shadowbox.yaml, or a relative file when there is no home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shadowbox.yaml"
	}
	return filepath.Join(home, ".shadowbox.yaml")
}

func defaultLibraryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./Music"
	}
	return filepath.Join(home, "Music")
}

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		LibraryPath: defaultLibraryPath(),
		ScratchPath: filepath.Join(os.TempDir(), "shadowbox"),
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Acquisition: Acquisition{
			Tool:               "yt-dlp",
			AudioFormat:        "opus",
			AttemptTimeoutSecs: 300,
			SettleMillis:       500,
			RetryDelayMillis:   1500,
			RetryJitterMillis:  2500,
			MinFileSize:        1024,
		},
		Metadata: Metadata{
			Enrich: false,
			Providers: map[string]Provider{
				"spotify": {Enabled: true},
				"lastfm":  {Enabled: true},
				"itunes":  {Enabled: true},
			},
		},
		Lyrics: Lyrics{
			Enabled: true,
			Providers: map[string]Provider{
				"lrclib":   {Enabled: true},
				"genius":   {Enabled: false},
				"tekstowo": {Enabled: false},
			},
		},
		Artwork: Artwork{
			Embedded: EmbeddedArtwork{
				Enabled: true,
				Size:    1000,
				Quality: 85,
			},
		},
		Placement: Placement{
			Asciify:     false,
			Placeholder: "Unknown",
		},
		Database: Database{
			Path: filepath.Join(defaultLibraryPath(), ".shadowbox.db"),
		},
		Watch: Watch{
			DebounceSecs: 5,
			KeepOriginal: false,
		},
	}
}
