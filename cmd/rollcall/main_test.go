package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rollcall/internal/config"
	"rollcall/internal/testsupport"
)

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIIngestRunsEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	roster := testsupport.WriteCSV(t, [][]string{
		{"08032025", "Ann", "ann@x.com", "Eng"},
		{"08032025", "Ann", "ann@x.com", "Eng"},
		{"08042025", "Bob", "bob@x.com", "Ops"},
	})

	stdout, _, err := runCLI(t, configPath, "ingest", "--file", roster)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	for _, want := range []string{
		"rows_processed=3",
		"new_identities=2",
		"duplicate_identities=0",
		"events_recorded=2",
		"duplicate_events=1",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCLIIngestRequiresFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, configPath, "ingest")
	if err == nil {
		t.Fatal("expected missing --file to fail")
	}
	if !isUsageError(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestCLIUnknownFlagIsUsageError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, configPath, "ingest", "--bogus")
	if err == nil {
		t.Fatal("expected unknown flag to fail")
	}
	if !isUsageError(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestCLIIngestRejectsBadMapping(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	roster := testsupport.WriteCSV(t, [][]string{
		{"08032025", "Ann", "ann@x.com", "Eng"},
	})

	_, _, err := runCLI(t, configPath, "ingest", "--file", roster, "--mapping", "sideways")
	if err == nil {
		t.Fatal("expected bad mapping to fail")
	}
	if !isUsageError(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestCLICheckReportsUnknownEmail(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "check", "--email", "nobody@x.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(stdout, "nobody@x.com is not on record") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestCLICheckRecordToday(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "check",
		"--email", "Ann@X.com", "--name", "Ann", "--department", "Eng", "--record-today")
	if err != nil {
		t.Fatalf("check --record-today: %v", err)
	}
	if !strings.Contains(stdout, "Created ann@x.com") {
		t.Fatalf("expected creation message, got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, configPath, "check",
		"--email", "ann@x.com", "--record-today")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !strings.Contains(stdout, "already has attendance recorded") {
		t.Fatalf("expected duplicate message, got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, configPath, "check", "--email", "ann@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(stdout, "Seen 1 time(s)") {
		t.Fatalf("expected activity line, got:\n%s", stdout)
	}
}

func TestCLICheckRequiresEmail(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, configPath, "check")
	if err == nil || !isUsageError(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	stdout, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, target) {
		t.Fatalf("expected path in output, got:\n%s", stdout)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config on disk: %v", err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestCLIConfigShowRedactsPassword(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Database.Password = "hunter2"
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(stdout, "hunter2") {
		t.Fatalf("password leaked:\n%s", stdout)
	}
	if !strings.Contains(stdout, "********") {
		t.Fatalf("expected redaction marker:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Config path: "+configPath) {
		t.Fatalf("expected config path line:\n%s", stdout)
	}
}
