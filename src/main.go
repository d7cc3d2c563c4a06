package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/contre95/shadowbox/src/features/acquiring"
	"github.com/contre95/shadowbox/src/features/config"
	"github.com/contre95/shadowbox/src/features/downloading"
	"github.com/contre95/shadowbox/src/features/logging"
	"github.com/contre95/shadowbox/src/features/metrics"
	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/infra/artwork"
	"github.com/contre95/shadowbox/src/infra/database"
	"github.com/contre95/shadowbox/src/infra/files"
	"github.com/contre95/shadowbox/src/infra/httpx"
	"github.com/contre95/shadowbox/src/infra/metadata"
	"github.com/contre95/shadowbox/src/infra/providers"
	"github.com/contre95/shadowbox/src/infra/tag"
	"github.com/contre95/shadowbox/src/infra/ytdlp"
	"github.com/spf13/cobra"
)

// errItemsFailed makes the process exit 1 after the summary was printed.
var errItemsFailed = errors.New("some items failed")

// app holds everything a command needs once the config is loaded.
type app struct {
	cfgManager *config.Manager
	recorder   *metrics.Recorder
	history    *database.SqliteHistory
	runner     *ytdlp.Runner
	service    *downloading.Service
}

// overrides are the root flags that replace config values when set.
type overrides struct {
	configPath string
	output     string
	format     string
	enrich     bool
}

// cli carries the root flags and the app built from them.
type cli struct {
	flags overrides
	app   *app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	err := newRootCmd(c).ExecuteContext(ctx)
	if closeErr := c.app.close(); closeErr != nil {
		slog.Warn("Could not close history database", "error", closeErr)
	}
	if err != nil {
		if !errors.Is(err, errItemsFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shadowbox",
		Short:         "Download music, tag it and file it into your library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, c.flags)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&c.flags.configPath, "config", config.DefaultPath(), "Path to the config file")
	cmd.PersistentFlags().StringVarP(&c.flags.output, "output", "d", "", "Library directory (overrides libraryPath)")
	cmd.PersistentFlags().StringVarP(&c.flags.format, "format", "f", "", "Audio format: opus, mp3, m4a, flac...")
	cmd.PersistentFlags().BoolVar(&c.flags.enrich, "enrich", false, "Look tracks up in the online catalogs")

	cmd.AddCommand(
		newGetCmd(c),
		newImportCmd(c),
		newWatchCmd(c),
		newHistoryCmd(c),
		newConfigCmd(c),
		newDoctorCmd(c),
	)
	return cmd
}

// newApp loads the config, applies flag overrides and wires the pipeline.
func newApp(cmd *cobra.Command, flags overrides) (*app, error) {
	cfgManager, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := *cfgManager.Get()
	if flags.output != "" {
		cfg.LibraryPath = flags.output
	}
	if flags.format != "" {
		cfg.Acquisition.AudioFormat = strings.ToLower(strings.TrimPrefix(flags.format, "."))
	}
	if cmd.Flags().Changed("enrich") {
		cfg.Metadata.Enrich = flags.enrich
	}
	cfgManager.Update(&cfg)

	slog.SetDefault(logging.SetupLogger(cfgManager))

	if err := cfgManager.EnsureDirectories(); err != nil {
		return nil, err
	}

	history, err := database.NewSqliteHistory(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	recorder := metrics.NewRecorder()
	client := httpx.NewClient()
	runner := ytdlp.NewRunner(cfg.Acquisition.Tool)
	engine := acquiring.NewEngine(runner, acquiring.OptionsFromConfig(cfg.Acquisition), recorder)

	catalog, genres := metadataProviders(&cfg, client)
	resolver := tagging.NewResolver(catalog, genres, lyricsProviders(&cfg, client), recorder)
	itunes := metadata.NewITunesProvider(cfg.Metadata.ProviderEnabled("itunes"), client)

	ports := downloading.Ports{
		Acquirer:  engine,
		Resolver:  resolver,
		TagReader: tag.NewTagReader(),
		TagWriter: tag.NewTagWriter(""),
		Artwork:   artwork.NewService(cfg.Artwork.Embedded, client),
		Placer:    files.NewOrganizer(cfg.Placement.Placeholder, cfg.Placement.Asciify),
		History:   history,
	}
	if itunes.IsEnabled() {
		ports.Covers = itunes
	}

	slog.Debug("Pipeline ready",
		"library", cfg.LibraryPath,
		"format", cfg.Acquisition.AudioFormat,
		"enrich", cfg.Metadata.Enrich,
		"catalog_providers", len(catalog),
	)
	return &app{
		cfgManager: cfgManager,
		recorder:   recorder,
		history:    history,
		runner:     runner,
		service:    downloading.NewService(downloading.OptionsFromConfig(&cfg), ports, recorder),
	}, nil
}

// metadataProviders returns the catalog and genre providers. Without
// enrichment the resolver works offline.
func metadataProviders(cfg *config.Config, client *http.Client) ([]tagging.MetadataProvider, []tagging.GenreProvider) {
	if !cfg.Metadata.Enrich {
		return nil, nil
	}
	m := cfg.Metadata
	spotify := m.Providers["spotify"]
	catalog := []tagging.MetadataProvider{
		metadata.NewSpotifyProvider(spotify.Enabled, config.Value(spotify.ClientID), config.Value(spotify.Secret), client),
		metadata.NewITunesProvider(m.ProviderEnabled("itunes"), client),
	}
	genres := []tagging.GenreProvider{
		metadata.NewLastFMProvider(m.ProviderEnabled("lastfm"), config.Value(m.Providers["lastfm"].Secret), client),
	}
	for _, p := range catalog {
		if !p.IsEnabled() {
			slog.Debug("Catalog provider disabled", "provider", p.Name())
		}
	}
	return catalog, genres
}

func lyricsProviders(cfg *config.Config, client *http.Client) []tagging.LyricsProvider {
	if !cfg.Lyrics.Enabled {
		return nil
	}
	enabled := func(name string) bool {
		p, ok := cfg.Lyrics.Providers[name]
		return ok && p.Enabled
	}
	return []tagging.LyricsProvider{
		providers.NewLRCLibProvider(enabled("lrclib"), client),
		metadata.NewGeniusProvider(enabled("genius"), config.Value(cfg.Lyrics.Providers["genius"].Secret), client),
		metadata.NewTekstowoProvider(enabled("tekstowo"), client),
	}
}

// close flushes metrics and closes the history database.
func (a *app) close() error {
	if a == nil {
		return nil
	}
	if path := a.cfgManager.Get().Metrics.Textfile; path != "" {
		if err := a.recorder.WriteTextfile(path); err != nil {
			slog.Warn("Could not write metrics textfile", "path", path, "error", err)
		}
	}
	return a.history.Close()
}
