package action

import (
	"errors"
	"strings"

	"go-midiauto/config"
)

// ErrEmptyCommand is returned for a shell action whose cmd has no words.
var ErrEmptyCommand = errors.New("empty command")

// Shell launches cmd as a child process without a shell in between
type Shell struct {
	Launcher Launcher
}

// Run formats, splits and launches the command. It returns as soon as the
// child has started.
func (s *Shell) Run(act config.Action, v Value) error {
	name, args, ok := SplitCommand(FormatCommand(act.Cmd, v))
	if !ok {
		return ErrEmptyCommand
	}
	return s.Launcher.Launch(name, args)
}

// SplitCommand splits on runs of whitespace. Quotes, globs and other
// shell syntax are not interpreted.
func SplitCommand(line string) (name string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}
