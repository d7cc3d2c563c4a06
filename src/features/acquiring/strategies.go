package acquiring

import (
	"path/filepath"
	"time"

	"github.com/contre95/shadowbox/src/music"
)

const (
	androidUA = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
	iosUA     = "com.google.ios.youtube/19.09.3 (iPhone14,3; U; CPU iOS 15_6 like Mac OS X)"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Strategy is one complete download tool invocation profile.
type Strategy struct {
	Name    string
	Args    []string
	Timeout time.Duration // zero uses the engine default
}

// StrategyList is tried in order until one strategy produces a file.
type StrategyList []Strategy

// Names returns the strategy names in order.
func (l StrategyList) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name
	}
	return names
}

var youtubeStrategies = StrategyList{
	{
		Name: "aria2c",
		Args: []string{
			"-f", "bestaudio/best",
			"--downloader", "aria2c",
			"--downloader-args", "aria2c:-x 16 -s 16 -k 1M",
			"--socket-timeout", "20",
		},
	},
	{
		Name: "standard",
		Args: []string{
			"-f", "bestaudio/best",
			"--retries", "3",
			"--fragment-retries", "3",
			"--socket-timeout", "30",
		},
	},
	{
		Name: "android-client",
		Args: []string{
			"-f", "bestaudio/best",
			"--extractor-args", "youtube:player_client=android",
			"--user-agent", androidUA,
			"--retries", "5",
			"--socket-timeout", "30",
		},
	},
	{
		Name: "ios-client",
		Args: []string{
			"-f", "bestaudio/best",
			"--extractor-args", "youtube:player_client=ios",
			"--user-agent", iosUA,
			"--retries", "5",
			"--socket-timeout", "30",
		},
	},
	{
		Name: "browser-headers",
		Args: []string{
			"-f", "bestaudio/best",
			"--user-agent", desktopUA,
			"--add-header", "Accept-Language:en-US,en;q=0.9",
			"--sleep-requests", "1",
			"--retries", "10",
			"--retry-sleep", "exp=1:20",
			"--socket-timeout", "45",
			"--no-check-certificates",
		},
		Timeout: 10 * time.Minute,
	},
}

var bandcampStrategies = StrategyList{
	{
		Name: "standard",
		Args: []string{
			"--retries", "3",
			"--socket-timeout", "30",
		},
	},
	{
		Name: "browser-headers",
		Args: []string{
			"--user-agent", desktopUA,
			"--add-header", "Accept-Language:en-US,en;q=0.9",
			"--retries", "10",
			"--socket-timeout", "45",
		},
	},
}

var playlistStrategies = StrategyList{
	{
		Name: "standard",
		Args: []string{
			"-f", "bestaudio/best",
			"--retries", "3",
			"--socket-timeout", "30",
		},
		Timeout: 60 * time.Minute,
	},
	{
		Name: "browser-headers",
		Args: []string{
			"-f", "bestaudio/best",
			"--user-agent", desktopUA,
			"--sleep-requests", "1",
			"--retries", "10",
			"--socket-timeout", "45",
		},
		Timeout: 90 * time.Minute,
	},
}

// StrategiesFor returns the fixed list for a method.
func StrategiesFor(method Method) StrategyList {
	switch method {
	case MethodBandcamp:
		return bandcampStrategies
	case MethodPlaylist:
		return playlistStrategies
	default:
		return youtubeStrategies
	}
}

// buildArgs assembles the full invocation: method args, strategy args, target.
func buildArgs(method Method, s Strategy, req music.AcquisitionRequest, scratchDir string) []string {
	template := "%(title)s.%(ext)s"
	if collectsAll(method, req) {
		template = "%(playlist_index)s - %(title)s.%(ext)s"
	}

	args := []string{
		"-x",
		"--audio-format", req.DesiredFormat,
		"--embed-metadata",
		"--no-progress",
		"-o", filepath.Join(scratchDir, template),
	}
	switch method {
	case MethodBandcamp:
		args = append(args, "--audio-quality", "0", "--embed-thumbnail")
	case MethodPlaylist:
		args = append(args, "--yes-playlist", "--ignore-errors")
	default:
		args = append(args, "--no-playlist")
	}
	args = append(args, s.Args...)
	return append(args, target(req))
}
