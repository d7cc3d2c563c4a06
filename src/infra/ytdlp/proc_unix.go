//go:build unix

package ytdlp

import (
	"os/exec"
	"syscall"
)

// killProcessGroupOnCancel starts the tool in its own process group and
// kills the group on cancellation.
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
