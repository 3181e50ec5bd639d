// Package clipboard copies conversion output to the system clipboard via
// platform commands.
package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard command exists on this system.
var ErrUnavailable = errors.New("clipboard unavailable")

// copyCommands lists candidate commands per GOOS, tried in order. On Linux
// the Wayland tool is preferred when a Wayland session is detected.
var copyCommands = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"windows": {{"clip"}},
	"linux": {
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	},
}

// IsAvailable reports whether a clipboard command can be found.
func IsAvailable() bool {
	_, err := lookupCommand()
	return err == nil
}

// Copy writes text to the system clipboard. Returns ErrUnavailable when no
// clipboard command is installed.
func Copy(text string) error {
	args, err := lookupCommand()
	if err != nil {
		return err
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func lookupCommand() ([]string, error) {
	candidates := copyCommands[runtime.GOOS]
	if runtime.GOOS == "linux" && os.Getenv("WAYLAND_DISPLAY") == "" {
		// No Wayland session: skip wl-copy, it would hang.
		candidates = candidates[1:]
	}
	for _, args := range candidates {
		if _, err := exec.LookPath(args[0]); err == nil {
			return args, nil
		}
	}
	return nil, ErrUnavailable
}
