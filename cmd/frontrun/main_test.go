package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-frontrun/core"
)

func TestCLI_MineThenInspect(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "frontrun.db") + "?_foreign_keys=on"
	batchPath := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(batchPath, []byte(scenarioBatch), 0o600); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	metricsPath := filepath.Join(dir, "metrics.prom")

	out := runCLI(t, "--dsn", dsn, "--metrics-out", metricsPath, "mine", "--batch", batchPath)
	if !strings.Contains(out, "block 2 (1 txs)") || !strings.Contains(out, "-> (ok u1)") {
		t.Fatalf("unexpected mine output:\n%s", out)
	}
	if !strings.Contains(out, "block 3 (1 txs)") || !strings.Contains(out, "-> (ok true)") {
		t.Fatalf("expected cancel receipt in block 3:\n%s", out)
	}

	metrics, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), "frontrun_registry_operations_total") {
		t.Fatalf("expected registry counters in metrics file:\n%s", metrics)
	}

	out = runCLI(t, "--dsn", dsn, "get", "1")
	if !strings.Contains(out, `status: "cancelled"`) {
		t.Fatalf("expected cancelled record, got %s", out)
	}

	out = runCLI(t, "--dsn", dsn, "count")
	if strings.TrimSpace(out) != "(ok u1)" {
		t.Fatalf("unexpected count output %q", out)
	}

	out = runCLI(t, "--dsn", dsn, "events", "u1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "created") || !strings.Contains(lines[1], "height=3") {
		t.Fatalf("unexpected events output:\n%s", out)
	}

	out = runCLI(t, "--dsn", dsn, "blocks", "--limit", "0")
	lines = strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "3 ") {
		t.Fatalf("unexpected blocks output:\n%s", out)
	}
}

func TestCLI_DispatcherRouteReadsRegistry(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "frontrun.db") + "?_foreign_keys=on"
	batchPath := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(batchPath, []byte(scenarioBatch), 0o600); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	runCLI(t, "--dsn", dsn, "--dispatcher", "mine", "--batch", batchPath)

	out := runCLI(t, "--dsn", dsn, "--dispatcher", "list", "--owner", "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM")
	if !strings.HasPrefix(out, "u1 ") || !strings.Contains(out, `status: "cancelled"`) {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	out = runCLI(t, "--dsn", dsn, "--dispatcher", "events", "u1")
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 {
		t.Fatalf("unexpected events output:\n%s", out)
	}

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--dsn", dsn, "--dispatcher", "events", "0"})
	if err := root.Execute(); !core.IsNotFound(err) {
		t.Fatalf("expected not found for id 0, got %v", err)
	}
}

func TestCLI_ConfigFileAppliesLimits(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "frontrun.db") + "?_foreign_keys=on"
	configPath := filepath.Join(dir, "frontrun.yaml")
	config := "limits:\n  max_target_ref_bytes: 4\n"
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(scenarioBatch))
	root.SetArgs([]string{"--dsn", dsn, "--config", configPath, "mine"})
	if err := root.Execute(); err != nil {
		t.Fatalf("mine: %v", err)
	}
	if !strings.Contains(stdout.String(), "(err FRONTRUN_VALIDATION_FAILED)") {
		t.Fatalf("expected target ref limit from config to reject create:\n%s", stdout.String())
	}
}

func TestCLI_RejectsUnknownDriver(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--driver", "oracle", "count"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected unsupported driver to fail")
	}
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("frontrun %s: %v", strings.Join(args, " "), err)
	}
	return stdout.String()
}
