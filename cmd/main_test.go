package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GolovachevS/listings-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		"NODE_ENV", "APP_STAGE", "PORT", "DATABASE_URL", "JWT_SECRET",
		"JWT_EXPIRES_IN", "BCRYPT_ROUNDS", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, values[key])
	}
}

func executeCheck(t *testing.T, envDir string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "check", "--env-dir", envDir})
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCheckValid(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_STAGE":    "production",
		"DATABASE_URL": "postgresql://app:s3cret@db:5432/listings",
		"JWT_SECRET":   "super-secret-value",
	})

	out, err := executeCheck(t, t.TempDir())
	if err != nil {
		t.Fatalf("config check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("missing success line:\n%s", out)
	}
	for _, secret := range []string{"super-secret-value", "s3cret"} {
		if strings.Contains(out, secret) {
			t.Fatalf("secret %q printed:\n%s", secret, out)
		}
	}
	if !strings.Contains(out, "3000") {
		t.Fatalf("expected default port in output:\n%s", out)
	}
}

func TestConfigCheckReadsTestOverlay(t *testing.T) {
	setEnv(t, map[string]string{"APP_STAGE": "test"})
	// t.Setenv with "" still defines the key; drop it so the overlay can fill it.
	if err := os.Unsetenv("DATABASE_URL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.test"), []byte("DATABASE_URL=mongodb://localhost/listings_test\n"), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	out, err := executeCheck(t, dir)
	if err != nil {
		t.Fatalf("config check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "mongodb://localhost/listings_test") {
		t.Fatalf("overlay value not used:\n%s", out)
	}
}

func TestConfigCheckInvalid(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_STAGE":     "production",
		"DATABASE_URL":  "mysql://db/listings",
		"BCRYPT_ROUNDS": "99",
	})

	out, err := executeCheck(t, t.TempDir())
	if !errors.Is(err, errInvalidConfig) {
		t.Fatalf("expected errInvalidConfig, got %v", err)
	}
	for _, want := range []string{"DATABASE_URL", "FormatViolation", "BCRYPT_ROUNDS", "RangeViolation", "2 configuration problem(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMaskURL(t *testing.T) {
	if got := maskURL("mongodb://user:pw@host/db"); strings.Contains(got, "pw") {
		t.Fatalf("password not masked: %s", got)
	}
	if got := maskURL("mongodb://localhost/db"); got != "mongodb://localhost/db" {
		t.Fatalf("url without credentials changed: %s", got)
	}
	if mask("") != "(unset)" || mask("abc") == "abc" {
		t.Fatalf("unexpected mask output")
	}
}

func TestReportFailureLogsStartupErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var stderr bytes.Buffer

	reportFailure(errors.New("dial tcp: connection refused"), &stderr, zap.New(core))

	if stderr.Len() != 0 {
		t.Fatalf("startup errors should go through the logger, got %q", stderr.String())
	}
	entries := logs.FilterMessage("application stopped").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error entry, got %+v", logs.All())
	}
	if got := entries[0].ContextMap()["error"]; got != "dial tcp: connection refused" {
		t.Fatalf("unexpected error field %v", got)
	}
}

func TestReportFailurePrintsViolations(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var stderr bytes.Buffer
	verr := &config.ValidationError{Violations: []config.Violation{
		{Field: "DATABASE_URL", Kind: config.KindMissing, Message: "is required"},
	}}

	reportFailure(verr, &stderr, zap.New(core))
	reportFailure(errInvalidConfig, &stderr, zap.New(core))

	if !strings.Contains(stderr.String(), "DATABASE_URL: is required") {
		t.Fatalf("violations should be printed plainly, got %q", stderr.String())
	}
	if strings.Count(stderr.String(), "\n") != 2 || logs.Len() != 0 {
		t.Fatalf("unexpected output %q, logs %d", stderr.String(), logs.Len())
	}
}
