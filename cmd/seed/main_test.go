package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "bexps.db"))
	t.Setenv("FILE_STORE_MODE", "local")
	t.Setenv("FILE_STORE_DIR", filepath.Join(dir, "media"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "false")
	return dir
}

func writeSeed(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return p
}

func TestRunAppliesSeed(t *testing.T) {
	dir := seedEnv(t)
	p := writeSeed(t, dir, "buildings:\n  - name: HQ\n    locations:\n      - name: Floor 1\n        type: floor\nelement_types:\n  IFCWALL: Wall\n")

	var out bytes.Buffer
	if err := run(context.Background(), p, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "buildings created: 1, locations created: 1") {
		t.Fatalf("summary: %q", out.String())
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := seedEnv(t)

	if err := run(context.Background(), filepath.Join(dir, "missing.yaml"), &bytes.Buffer{}); err == nil {
		t.Fatalf("missing file: expected error")
	}

	unknown := writeSeed(t, dir, "buildingz: []\n")
	if err := run(context.Background(), unknown, &bytes.Buffer{}); err == nil {
		t.Fatalf("unknown key: expected error")
	}

	unnamed := writeSeed(t, dir, "buildings:\n  - name: \"  \"\n")
	var out bytes.Buffer
	if err := run(context.Background(), unnamed, &out); err == nil {
		t.Fatalf("unnamed building: expected error")
	}
	if out.Len() != 0 {
		t.Fatalf("failed seed must not print a summary: %q", out.String())
	}
}
