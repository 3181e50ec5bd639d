package clipboard

import (
	"errors"
	"runtime"
	"testing"
)

func TestCopy_UnavailableIsSentinel(t *testing.T) {
	if IsAvailable() {
		t.Skip("clipboard available on this system")
	}
	if err := Copy("text"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Copy() = %v, want ErrUnavailable", err)
	}
}

func TestCopyCommands_KnownPlatforms(t *testing.T) {
	for _, goos := range []string{"darwin", "linux", "windows"} {
		if len(copyCommands[goos]) == 0 {
			t.Errorf("no copy commands declared for %s", goos)
		}
	}
	if _, ok := copyCommands[runtime.GOOS]; !ok && IsAvailable() {
		t.Errorf("IsAvailable() true on unsupported GOOS %s", runtime.GOOS)
	}
}
