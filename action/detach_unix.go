//go:build unix

package action

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so a Ctrl+C aimed at
// midiauto does not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
