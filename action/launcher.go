package action

import (
	"fmt"
	"os/exec"

	"github.com/google/uuid"

	"go-midiauto/debug"
)

// Launcher starts a detached child process
type Launcher interface {
	Launch(name string, args []string) error
}

// ProcessLauncher starts children with all standard streams on the null
// device and never waits on them. There is no limit on how many may run
// at once.
type ProcessLauncher struct{}

// Launch starts name with args and returns once the process exists.
// The exit status is collected in the background to release the process
// table entry. Every debug line for one launch carries the same id.
func (ProcessLauncher) Launch(name string, args []string) error {
	id := uuid.NewString()

	cmd := exec.Command(name, args...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		debug.Log("exec", "[%s] launch %s failed: %v", id, name, err)
		return fmt.Errorf("launch %s: %w", name, err)
	}
	debug.Log("exec", "[%s] launched %s %v pid=%d", id, name, args, cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		if cmd.ProcessState != nil {
			debug.Log("exec", "[%s] exited: %s", id, cmd.ProcessState)
			return
		}
		debug.Log("exec", "[%s] exited: %v", id, err)
	}()
	return nil
}
