package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/skill-matcher/internal/config"
)

// resetFlags restores every command flag to its default. Cobra only assigns
// flags that appear on the command line, so values would otherwise leak
// between in-process runs.
func resetFlags() {
	servePort, serveConfigFile = config.DefaultPort, ""
	analyzeJobFile, analyzeJobURL, analyzeResumeFile, analyzeCVFile, analyzeConfigFile = "", "", "", "", ""
	analyzeJSON, analyzeVerbose = false, false
	skillsExportOut, skillsExportRegistry = "", ""
	tokenSubject = ""
}

// runCLI executes the root command in-process and returns stdout and the error.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

// writeFile creates a file under a per-test temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
