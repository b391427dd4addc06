package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_LoadsExistingFiles(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "PINPOINT_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("PINPOINT_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("PINPOINT_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("PINPOINT_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from .env.local, got %q", got)
	}
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "pkg", "boundary")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 env files loaded, got %d", n)
	}
}

func TestRateLimitOptions_Validate(t *testing.T) {
	cases := []struct {
		name    string
		opts    RateLimitOptions
		wantErr bool
	}{
		{"memory storage ok", RateLimitOptions{GlobalRPS: 100, Storage: "memory"}, false},
		{"redis requires url", RateLimitOptions{GlobalRPS: 100, Storage: "redis"}, true},
		{"redis with url ok", RateLimitOptions{GlobalRPS: 100, Storage: "redis", RedisURL: "redis://localhost:6379"}, false},
		{"negative rps", RateLimitOptions{GlobalRPS: -1, Storage: "memory"}, true},
		{"rps too high", RateLimitOptions{GlobalRPS: 2000000, Storage: "memory"}, true},
		{"unknown storage", RateLimitOptions{GlobalRPS: 100, Storage: "etcd"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRLS(t *testing.T) {
	cases := []struct {
		name    string
		mode    string
		dbUser  string
		want    string
		wantErr bool
	}{
		{"empty defaults to disabled", "", "app", "disabled", false},
		{"disabled", "disabled", "postgres", "disabled", false},
		{"enforce with app user", "enforce", "app_rls", "enforce", false},
		{"enforce normalizes case", " Enforce ", "app_rls", "enforce", false},
		{"enforce rejects postgres", "enforce", "postgres", "", true},
		{"unknown mode", "audit", "app", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Configuration{RLSEnforce: tc.mode}
			c.Database.User = tc.dbUser
			err := c.validateRLS()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.RLSEnforce != tc.want {
				t.Fatalf("expected mode %q, got %q", tc.want, c.RLSEnforce)
			}
		})
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
