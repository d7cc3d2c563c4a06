//go:build !unix

package ytdlp

import "os/exec"

// killProcessGroupOnCancel keeps the default behaviour: only the tool itself
// is killed, WaitDelay releases the pipes.
func killProcessGroupOnCancel(cmd *exec.Cmd) {}
