package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildBinary compiles cmd/bootload into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}

	binName := "bootload"
	if runtime.GOOS == "windows" {
		binName = "bootload.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs in the package directory, test/e2e.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/bootload")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build bootload: %v", err)
	}
	return binPath
}

// TestCLI_E2E verifies the built binary end to end in headless mode.
func TestCLI_E2E(t *testing.T) {
	binPath := buildBinary(t)

	dataDir := t.TempDir()
	goodData := filepath.Join(dataDir, "good.yaml")
	badTheme := filepath.Join(dataDir, "bad-theme.yaml")
	if err := os.WriteFile(goodData, []byte("settings:\n  theme: solarized\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(badTheme, []byte("settings:\n  theme: neon\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Defaults",
			args:     []string{"--mode", "headless"},
			wantOut:  "loaded in",
			wantCode: 0,
		},
		{
			name:     "Init Data File",
			args:     []string{"--mode", "headless", "--init-data", goodData},
			wantOut:  "theme solarized",
			wantCode: 0,
		},
		{
			name:     "Auto Mode Without Terminal",
			args:     nil,
			wantOut:  "loaded in",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "bootload",
			wantCode: 0,
		},
		{
			name:     "Missing Init Data",
			args:     []string{"--mode", "headless", "--init-data", filepath.Join(dataDir, "missing.yaml")},
			wantOut:  "failed to load:",
			wantCode: 3,
		},
		{
			name:     "Unknown Theme",
			args:     []string{"--mode", "headless", "--init-data", badTheme},
			wantOut:  "neon",
			wantCode: 3,
		},
		{
			name:     "Unreachable Server",
			args:     []string{"--mode", "headless", "--server", "127.0.0.1:1", "--reconnect-attempts", "1"},
			wantOut:  "failed to load:",
			wantCode: 3,
		},
		{
			name:     "Invalid Mode",
			args:     []string{"--mode", "gui"},
			wantOut:  "invalid mode",
			wantCode: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput:\n%s", code, tt.wantCode, outStr)
			}

			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
