package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		id := GenerateID()
		if len(id) != 36 {
			t.Fatalf("expected 36 character uuid, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "moviex.log")

	logger, f, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("refresh applied", "generation", 3)
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "refresh applied") || !strings.Contains(string(data), "generation=3") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestOpenCommand(t *testing.T) {
	tc := []struct {
		runtime string
		want    string
	}{
		{runtime: "darwin", want: "open"},
		{runtime: "linux", want: "xdg-open"},
		{runtime: "windows", want: "cmd"},
	}

	for _, tt := range tc {
		t.Run(tt.runtime, func(t *testing.T) {
			cmd, err := openCommand(tt.runtime, "movies.json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filepath.Base(cmd.Args[0]) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cmd.Args[0])
			}
			if cmd.Args[len(cmd.Args)-1] != "movies.json" {
				t.Errorf("target should be the last argument, got %v", cmd.Args)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		original := getRuntime
		defer func() { getRuntime = original }()
		getRuntime = func() string { return "plan9" }

		if err := OpenExternal("movies.json"); err == nil {
			t.Error("expected error on unsupported platform")
		}
	})
}
