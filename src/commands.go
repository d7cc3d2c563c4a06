package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/contre95/shadowbox/src/features/downloading"
	"github.com/contre95/shadowbox/src/infra/watcher"
	"github.com/spf13/cobra"
)

func newGetCmd(c *cli) *cobra.Command {
	var batchFile string
	cmd := &cobra.Command{
		Use:   "get [query or URL]...",
		Short: "Download songs, playlists or Bandcamp albums into the library",
		Example: `  shadowbox get "queen bohemian rhapsody"
  shadowbox get https://artist.bandcamp.com/album/record -f flac
  shadowbox get --batch songs.txt --enrich`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := downloading.NormalizeInputs(args)
			if batchFile != "" {
				f, err := os.Open(batchFile)
				if err != nil {
					return fmt.Errorf("failed to open batch file: %w", err)
				}
				fromFile, err := downloading.ReadInputs(f)
				f.Close()
				if err != nil {
					return err
				}
				inputs = append(inputs, fromFile...)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("nothing to download: pass a query, a URL or --batch")
			}

			report := c.app.service.DownloadBatch(cmd.Context(), inputs)
			printReport(cmd.OutOrStdout(), report)
			if report.Succeeded() < report.Total() {
				return errItemsFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&batchFile, "batch", "b", "", "File with one query or URL per line")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file or directory>",
		Short: "Tag and file local audio files into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}

			var report downloading.BatchReport
			if info.IsDir() {
				report, err = c.app.service.ImportDirectory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			} else {
				report.Items = []downloading.ItemResult{c.app.service.ImportFile(cmd.Context(), args[0])}
			}
			printReport(cmd.OutOrStdout(), report)
			if report.Succeeded() < report.Total() {
				return errItemsFailed
			}
			return nil
		},
	}
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Import audio files as they land in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			debounce := time.Duration(c.app.cfgManager.Get().Watch.DebounceSecs) * time.Second

			events := make(chan watcher.FileEvent, 16)
			w, err := watcher.NewWatcher(events, debounce)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := w.Start(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to watch %s: %w", args[0], err)
			}
			defer w.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Watching "+args[0]+", press Ctrl+C to stop"))
			return watchLoop(ctx, c.app.service, events, func(item downloading.ItemResult) {
				printItem(cmd.OutOrStdout(), item)
			})
		},
	}
}

// watchLoop imports each settled file, one at a time, until ctx ends.
func watchLoop(ctx context.Context, service *downloading.Service, events <-chan watcher.FileEvent, done func(downloading.ItemResult)) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil
		case ev := <-events:
			if _, err := os.Stat(ev.Path); err != nil {
				slog.Debug("File vanished before import", "path", ev.Path)
				continue
			}
			done(service.ImportFile(ctx, ev.Path))
		}
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads and imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.history.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			counts, err := c.app.history.CountByStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			printHistory(cmd.OutOrStdout(), entries, counts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), c.app.cfgManager.GetYAML())
			return nil
		},
	}
}

func newDoctorCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ok := true

			version, err := c.app.runner.Version(cmd.Context())
			if err != nil {
				ok = false
				fmt.Fprintln(out, errorStyle.Render("✗ yt-dlp: "+err.Error()))
			} else {
				fmt.Fprintln(out, successStyle.Render("✓ yt-dlp "+version))
			}

			for _, tool := range []string{"ffmpeg", "aria2c"} {
				path, err := exec.LookPath(tool)
				switch {
				case err == nil:
					fmt.Fprintln(out, successStyle.Render("✓ "+tool+" "+path))
				case tool == "aria2c":
					fmt.Fprintln(out, warningStyle.Render("! aria2c not found, downloads fall back to the standard strategy"))
				default:
					ok = false
					fmt.Fprintln(out, errorStyle.Render("✗ "+tool+" not found"))
				}
			}
			if !ok {
				return errItemsFailed
			}
			return nil
		},
	}
}
