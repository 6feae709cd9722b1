package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every package-level flag and the effective config.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	configPath, logLevel, logDir = "", "", ""
	cfg = defaultConfig()

	createFormatVersion, createClusterSize, createMaxExpand = "", 0, 0
	createCapacity, createForce = -1, false
	addFiles, addNoTx = nil, false
	lsIndexing, lsAll = "logical", false
	catIndexing, catAs = "logical", "string"
	rmIndexing = "logical"
	statsProm, statsNamespace = false, "cfs"
}

// newStoreFile creates an empty store in a temp dir and returns its path.
func newStoreFile(t *testing.T) string {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	path := filepath.Join(t.TempDir(), "test.cfs")
	quiet = true
	if err := runCreate(context.Background(), []string{path}); err != nil {
		t.Fatalf("create store: %v", err)
	}
	quiet = false
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
