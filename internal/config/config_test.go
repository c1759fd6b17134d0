package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	t.Run("variable set", func(t *testing.T) {
		t.Setenv("TEST_VAR", "test_value")
		if got := requireEnv("TEST_VAR"); got != "test_value" {
			t.Errorf("requireEnv() = %v, want test_value", got)
		}
	})

	t.Run("variable not set", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("requireEnv() should have panicked")
			}
		}()
		requireEnv("TEST_VAR_MISSING")
	})
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", expected: 42},
		{name: "invalid integer", value: "not_a_number", wantPanic: true},
		{name: "missing", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			if got := requireEnvInt("TEST_INT"); !tt.wantPanic && got != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "10s", def: 5 * time.Second, expected: 10 * time.Second},
		{name: "invalid duration uses default", value: "soon", def: 5 * time.Second, expected: 5 * time.Second},
		{name: "empty uses default", value: "", def: time.Minute, expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{value: "true", def: false, expected: true},
		{value: "0", def: true, expected: false},
		{value: "maybe", def: true, expected: true},
		{value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
			t.Errorf("mustBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` 10.0.0.0/8, "192.168.1.4" ,, '::1'`)
	want := []string{"10.0.0.0/8", "192.168.1.4", "::1"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadMemoryBackend(t *testing.T) {
	t.Setenv("MOCKDATA_STORAGE", "Memory")
	t.Setenv("MOCKDATA_LISTEN_PORT", ":9090")
	t.Setenv("MOCKDATA_ALLOWED_CIDRS", "127.0.0.1, 10.0.0.0/8")
	t.Setenv("MOCKDATA_ALLOWED_ORIGINS", "chrome-extension://abc")

	cfg := Load()
	if cfg.StorageBackend != BackendMemory {
		t.Errorf("StorageBackend = %q, want memory", cfg.StorageBackend)
	}
	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v", cfg.AllowedCIDRS)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "chrome-extension://abc" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedHosts != nil {
		t.Errorf("AllowedHosts = %v, want none", cfg.AllowedHosts)
	}
	if cfg.RedisAddr != "" {
		t.Error("redis settings should not be read for the memory backend")
	}
}

func TestLoadRedisBackend(t *testing.T) {
	t.Setenv("MOCKDATA_STORAGE", "redis")
	t.Setenv("MOCKDATA_REDIS_ADDR", "localhost:6379")
	t.Setenv("MOCKDATA_REDIS_DB", "2")
	t.Setenv("MOCKDATA_REDIS_PASSWORD_REQUIRED", "false")

	cfg := Load()
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis settings = %q, %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.RedisConnectTimeout != 30*time.Second {
		t.Errorf("RedisConnectTimeout = %v, want 30s", cfg.RedisConnectTimeout)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MOCKDATA_STORAGE", "etcd")
	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic on an unknown backend")
		}
	}()
	Load()
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Setenv("MOCKDATA_STORAGE", "redis")
	t.Setenv("MOCKDATA_REDIS_ADDR", "localhost:6379")
	t.Setenv("MOCKDATA_REDIS_DB", "0")
	t.Setenv("MOCKDATA_REDIS_PASSWORD", "")
	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without a password")
		}
	}()
	Load()
}
