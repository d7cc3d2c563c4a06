package acquiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/contre95/shadowbox/src/features/config"
	"github.com/contre95/shadowbox/src/features/metrics"
	"github.com/contre95/shadowbox/src/music"
)

// Options tunes the engine. Zero values are valid and disable the delays.
type Options struct {
	AttemptTimeout time.Duration
	Settle         time.Duration
	RetryDelay     time.Duration
	RetryJitter    time.Duration
	MinFileSize    int64
}

// OptionsFromConfig converts the acquisition section of the config.
func OptionsFromConfig(cfg config.Acquisition) Options {
	return Options{
		AttemptTimeout: time.Duration(cfg.AttemptTimeoutSecs) * time.Second,
		Settle:         time.Duration(cfg.SettleMillis) * time.Millisecond,
		RetryDelay:     time.Duration(cfg.RetryDelayMillis) * time.Millisecond,
		RetryJitter:    time.Duration(cfg.RetryJitterMillis) * time.Millisecond,
		MinFileSize:    cfg.MinFileSize,
	}
}

// Engine downloads audio by running strategy lists against the download tool.
type Engine struct {
	runner   Runner
	opts     Options
	recorder *metrics.Recorder
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an Engine. recorder may be nil.
func NewEngine(runner Runner, opts Options, recorder *metrics.Recorder) *Engine {
	return &Engine{
		runner:   runner,
		opts:     opts,
		recorder: recorder,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Acquire downloads the request into scratchDir. It never returns an error:
// every failure is reported through the outcome status.
func (e *Engine) Acquire(ctx context.Context, req music.AcquisitionRequest, scratchDir string) music.DownloadOutcome {
	method := SelectMethod(req)
	outcome := e.acquire(ctx, method, req, scratchDir)
	e.recorder.Acquisition(method.String(), outcome.Status.String())
	return outcome
}

func (e *Engine) acquire(ctx context.Context, method Method, req music.AcquisitionRequest, scratchDir string) music.DownloadOutcome {
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return music.Failed(music.StatusFatalFailure, []string{fmt.Sprintf("failed to create scratch directory: %v", err)}, nil)
	}

	strategies := StrategiesFor(method)
	slog.Info("Acquiring", "query", req.Query, "method", method, "strategies", len(strategies))

	var diagnostics, hints []string
	for i, s := range strategies {
		if err := ctx.Err(); err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("acquisition canceled: %v", err))
			return music.Failed(music.StatusFatalFailure, diagnostics, hints)
		}

		paths, text, err := e.attempt(ctx, method, s, req, scratchDir)
		if err == nil {
			e.recorder.Attempt(s.Name, "none")
			slog.Info("Download succeeded", "strategy", s.Name, "files", len(paths))
			return music.Succeeded(s.Name, paths, diagnostics)
		}

		r := classify(text)
		class := Classify(text)
		e.recorder.Attempt(s.Name, class.String())
		diagnostics = append(diagnostics, fmt.Sprintf("[%s] %s", s.Name, summarize(text)))
		if hint := DependencyHint(text); hint != "" {
			hints = appendUnique(hints, hint)
		}
		slog.Warn("Download strategy failed", "strategy", s.Name, "class", class, "error", err)

		if class == ClassFatal {
			slog.Error("Content is unavailable, not trying other strategies", "query", req.Query)
			return music.Failed(music.StatusFatalFailure, diagnostics, hints)
		}
		if r == reasonTransient && i < len(strategies)-1 {
			delay := e.jitteredDelay()
			slog.Debug("Backing off before next strategy", "delay", delay)
			if err := e.sleep(ctx, delay); err != nil {
				diagnostics = append(diagnostics, fmt.Sprintf("acquisition canceled: %v", err))
				return music.Failed(music.StatusFatalFailure, diagnostics, hints)
			}
		}
	}

	for _, h := range exhaustionHints(req) {
		hints = appendUnique(hints, h)
	}
	return music.Failed(music.StatusFatalFailure, diagnostics, hints)
}

var errNoOutput = errors.New("no audio file was produced")

// attempt runs one strategy and returns the produced files, or the
// diagnostic text and an error.
func (e *Engine) attempt(ctx context.Context, method Method, s Strategy, req music.AcquisitionRequest, scratchDir string) ([]string, string, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = e.opts.AttemptTimeout
	}
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	before := snapshot(scratchDir)
	args := buildArgs(method, s, req, scratchDir)
	slog.Debug("Running download tool", "strategy", s.Name, "args", args)
	output, runErr := e.runner.Run(attemptCtx, args)

	if runErr != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		output = fmt.Sprintf("%s\nattempt timed out after %s", output, timeout)
	}

	_ = e.sleep(ctx, e.opts.Settle)
	found := newAudioFiles(scratchDir, before, e.opts.MinFileSize)

	var paths []string
	if collectsAll(method, req) {
		paths = byOrdinal(found)
	} else if p := newest(found); p != "" {
		paths = []string{p}
	}

	switch {
	case runErr == nil && len(paths) > 0:
		return paths, output, nil
	case runErr != nil && len(paths) > 0 && collectsAll(method, req):
		// Some entries of a playlist failed; keep the ones that arrived.
		slog.Warn("Playlist finished with errors, keeping downloaded entries", "files", len(paths), "error", runErr)
		return paths, output, nil
	case runErr != nil:
		discard(found)
		return nil, joinDiagnostic(output, runErr), runErr
	default:
		discard(found)
		return nil, joinDiagnostic(output, errNoOutput), errNoOutput
	}
}

func (e *Engine) jitteredDelay() time.Duration {
	d := e.opts.RetryDelay
	if e.opts.RetryJitter > 0 {
		d += time.Duration(rand.Int64N(int64(e.opts.RetryJitter)))
	}
	return d
}

func joinDiagnostic(output string, err error) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return err.Error()
	}
	return output + "\n" + err.Error()
}

// summarize keeps the error lines of the tool output, or its tail.
func summarize(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var picked []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "ERROR") || strings.Contains(strings.ToLower(l), "timed out") {
			picked = append(picked, l)
		}
	}
	if len(picked) == 0 {
		start := max(len(lines)-3, 0)
		picked = lines[start:]
	}
	s := strings.Join(picked, " | ")
	if len(s) > 400 {
		s = s[:400] + "..."
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
