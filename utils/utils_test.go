package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/.farmer-admin/session.json", want: filepath.Join(home, ".farmer-admin", "session.json")},
		{in: "/var/lib/session.json", want: "/var/lib/session.json"},
		{in: "relative/session.json", want: "relative/session.json"},
		{in: "~other/session.json", want: "~other/session.json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("ExpandHome() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMkdirIfNotExists(t *testing.T) {
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "nested", "dir", "session.json")
	if err := MkdirIfNotExists(filePath); err != nil {
		t.Fatalf("MkdirIfNotExists() error = %v", err)
	}
	if info, err := os.Stat(filepath.Dir(filePath)); err != nil || !info.IsDir() {
		t.Errorf("expected parent directory to exist, err = %v", err)
	}

	dirPath := filepath.Join(tmpDir, "logs")
	if err := MkdirIfNotExists(dirPath); err != nil {
		t.Fatalf("MkdirIfNotExists() error = %v", err)
	}
	if info, err := os.Stat(dirPath); err != nil || !info.IsDir() {
		t.Errorf("expected directory to exist, err = %v", err)
	}

	if err := MkdirIfNotExists(""); err == nil {
		t.Error("MkdirIfNotExists() expected error for empty path")
	}
}
