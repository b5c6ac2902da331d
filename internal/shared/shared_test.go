package shared

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf)

		if err := SetLogLevel(l, "warn"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", l.GetLevel())
		}

		l.Info("hidden")
		if strings.Contains(buf.String(), "hidden") {
			t.Error("info message should be filtered at warn level")
		}
	})

	t.Run("SetLogLevel Invalid", func(t *testing.T) {
		err := SetLogLevel(NewLogger(nil), "loud")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "myflix.log")

		l, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		l.Info("written to file")
	})
}

func TestOpenBrowser(t *testing.T) {
	var started []string
	startCommand = func(cmd *exec.Cmd) error {
		started = append(started, strings.Join(cmd.Args, " "))
		return nil
	}
	getRuntime = func() string { return "linux" }
	t.Cleanup(func() {
		startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }
		getRuntime = func() string { return runtime.GOOS }
	})

	t.Run("Opens HTTP URL", func(t *testing.T) {
		if err := OpenBrowser("https://img.example.com/poster.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(started) != 1 || started[0] != "xdg-open https://img.example.com/poster.jpg" {
			t.Errorf("unexpected command: %v", started)
		}
	})

	t.Run("Rejects Non HTTP URL", func(t *testing.T) {
		err := OpenBrowser("file:///etc/passwd")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
