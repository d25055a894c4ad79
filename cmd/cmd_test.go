package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", t.TempDir()+"/missing.env"))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || !strings.HasPrefix(out, "reservd dev") {
		t.Fatalf("version = %q, %v", out, err)
	}
}

func TestMigrateDryRun(t *testing.T) {
	out, err := run(t, "migrate", "--dry-run", "--unique-active-slot")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "0001_restaurants") || !strings.HasSuffix(strings.TrimSpace(out), "0004_unique_active_slot") {
		t.Fatalf("plan = %q", out)
	}
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	if _, err := run(t, "token", "--user", "1", "--role", "owner"); err == nil {
		t.Fatal("unknown role accepted")
	}
}

func TestTokenPrintsJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	out, err := run(t, "token", "--user", "42", "--role", "admin", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), ".") != 2 {
		t.Fatalf("token output = %q", out)
	}
}
