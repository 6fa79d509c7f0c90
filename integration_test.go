//go:build integration
// +build integration

package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBinary compiles bpmlookup into a temporary directory
func buildBinary(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "bpmlookup_test")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// isolatedEnv keeps the binary away from the real cache and network
func isolatedEnv(t *testing.T) []string {
	t.Helper()

	return append(os.Environ(),
		"HOME="+t.TempDir(),
		"BPMLOOKUP_CACHE_DB="+filepath.Join(t.TempDir(), "known_bpms.sqlite"),
		"BPMLOOKUP_TUNEBAT_API_URL=http://127.0.0.1:1",
		"BPMLOOKUP_TUNEBAT_BASE_URL=http://127.0.0.1:1",
		"BPMLOOKUP_SONGBPM_BASE_URL=http://127.0.0.1:1",
	)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Command did not run: %v", err)
	}
	return exitErr.ExitCode()
}

// TestMissingArguments checks the usage error path
func TestMissingArguments(t *testing.T) {
	bin := buildBinary(t)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, "Daft Punk")
	cmd.Env = isolatedEnv(t)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if code := exitCode(t, cmd.Run()); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected empty stdout, got %q", stdout.String())
	}
	if !bytes.Contains(stderr.Bytes(), []byte("Usage:")) {
		t.Errorf("Expected usage message on stderr, got %q", stderr.String())
	}
}

// TestCachedLookup seeds the cache and reads it back through a lookup
func TestCachedLookup(t *testing.T) {
	bin := buildBinary(t)
	env := isolatedEnv(t)

	set := exec.Command(bin, "cache", "set", "Daft Punk", "One More Time", "123")
	set.Env = env
	if out, err := set.CombinedOutput(); err != nil {
		t.Fatalf("cache set failed: %v\n%s", err, out)
	}

	var stdout bytes.Buffer
	lookup := exec.Command(bin, "daft punk", "ONE MORE TIME")
	lookup.Env = env
	lookup.Stdout = &stdout

	if code := exitCode(t, lookup.Run()); code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if stdout.String() != "123" {
		t.Errorf("Expected stdout %q, got %q", "123", stdout.String())
	}
}

// TestUnreachableSources checks the not-found path when nothing answers
func TestUnreachableSources(t *testing.T) {
	bin := buildBinary(t)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, "Nobody", "Nothing")
	cmd.Env = isolatedEnv(t)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if code := exitCode(t, cmd.Run()); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected empty stdout, got %q", stdout.String())
	}
	if !bytes.Contains(stderr.Bytes(), []byte("Could not find BPM for 'Nobody - Nothing'")) {
		t.Errorf("Expected not-found message, got %q", stderr.String())
	}
}
