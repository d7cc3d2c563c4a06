// Package ytdlp runs the external yt-dlp binary for the acquisition engine.
package ytdlp

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTool is the binary looked up on PATH when no tool is configured.
const DefaultTool = "yt-dlp"

// waitDelay bounds how long Run waits for the output pipes after the tool
// was killed.
const waitDelay = 2 * time.Second

// Runner implements acquiring.Runner on top of os/exec.
type Runner struct {
	tool string
}

// NewRunner creates a Runner for the given binary name or path.
func NewRunner(tool string) *Runner {
	if strings.TrimSpace(tool) == "" {
		tool = DefaultTool
	}
	return &Runner{tool: tool}
}

// Run executes the tool with args and returns its combined stdout and
// stderr. When ctx ends the whole process group is killed, so helpers the
// tool spawned (ffmpeg, aria2c) cannot keep Run blocked.
func (r *Runner) Run(ctx context.Context, args []string) (string, error) {
	path, err := exec.LookPath(r.tool)
	if err != nil {
		return "", fmt.Errorf("%s: not found: %w", r.tool, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s failed: %w", r.tool, err)
	}
	return string(output), nil
}

// Version returns the installed tool version, used by the doctor output.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, []string{"--version"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
