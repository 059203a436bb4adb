package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

const (
	testSecretA = "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w"
	testSecretB = "fedcba9876543210fedcba9876543210:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PX_HMAC_SECRET", "PX_HMAC_SECRET_1", "PX_HMAC_SECRET_2",
		"PX_SERVER_HOST", "PX_SERVER_PORT", "PX_SERVER_MAX_BATCH_SIZE",
		"PX_ENGINE_STRICT_FORMULAS", "PX_ENGINE_MAX_PARAMETERS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHMACSecrets(t *testing.T) {
	t.Run("single secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_HMAC_SECRET", testSecretA)

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 1 {
			t.Errorf("expected 1 secret, got %d", len(secrets))
		}
		if _, ok := secrets["0123456789abcdef0123456789abcdef"]; !ok {
			t.Errorf("secret_id not found in map")
		}
	})

	t.Run("numbered secrets for rotation", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_HMAC_SECRET_1", testSecretA)
		t.Setenv("PX_HMAC_SECRET_2", testSecretB)

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 2 {
			t.Errorf("expected 2 secrets, got %d", len(secrets))
		}
	})

	t.Run("none configured", func(t *testing.T) {
		clearEnv(t)
		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 0 {
			t.Errorf("expected no secrets, got %d", len(secrets))
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_HMAC_SECRET", "invalid_format")
		if _, err := HMACSecrets(); err == nil {
			t.Error("expected error for invalid format")
		}
	})

	t.Run("duplicate secret_id between single and numbered", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_HMAC_SECRET", testSecretA)
		t.Setenv("PX_HMAC_SECRET_1", testSecretA)
		if _, err := HMACSecrets(); err == nil {
			t.Error("expected error for duplicate secret_id")
		}
	})
}

func TestParseHMACSecretWithID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantID  string
		wantErr bool
	}{
		{name: "valid", value: testSecretA, wantID: "0123456789abcdef0123456789abcdef"},
		{name: "surrounding whitespace", value: "  " + testSecretB + "\n", wantID: "fedcba9876543210fedcba9876543210"},
		{name: "missing colon", value: "0123456789abcdef0123456789abcdef", wantErr: true},
		{name: "short id", value: "tooshort:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w", wantErr: true},
		{name: "non-hex id", value: "0123456789abcdefGHIJKLMNOPQRSTUV:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w", wantErr: true},
		{name: "invalid base64", value: "0123456789abcdef0123456789abcdef:not-base64!!!", wantErr: true},
		{name: "secret too short", value: "0123456789abcdef0123456789abcdef:c2hvcnQ=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, secret, err := ParseHMACSecretWithID(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHMACSecretWithID(%q) expected error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHMACSecretWithID(%q) error = %v", tt.value, err)
			}
			if id != tt.wantID {
				t.Errorf("secret_id = %s, want %s", id, tt.wantID)
			}
			if len(secret) < 32 {
				t.Errorf("secret too short: %d bytes", len(secret))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load("", nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
		}
		if cfg.Server.Port != 50061 {
			t.Errorf("expected port 50061, got %d", cfg.Server.Port)
		}
		if cfg.Server.RequestTimeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", cfg.Server.RequestTimeout)
		}
		if cfg.Server.MaxBatchSize != 100 {
			t.Errorf("expected max_batch_size 100, got %d", cfg.Server.MaxBatchSize)
		}
		if cfg.Engine.StrictFormulas {
			t.Errorf("expected lenient formulas by default")
		}
		if cfg.Engine.MaxParameters != 10000 {
			t.Errorf("expected max_parameters 10000, got %d", cfg.Engine.MaxParameters)
		}
		if cfg.Server.Addr() != "0.0.0.0:50061" {
			t.Errorf("Addr() = %s", cfg.Server.Addr())
		}
	})

	t.Run("environment override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_SERVER_PORT", "9999")
		t.Setenv("PX_SERVER_HOST", "127.0.0.1")
		t.Setenv("PX_ENGINE_STRICT_FORMULAS", "true")

		cfg, err := Load("", nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 9999 || cfg.Server.Host != "127.0.0.1" {
			t.Errorf("expected 127.0.0.1:9999, got %s", cfg.Server.Addr())
		}
		if !cfg.Engine.StrictFormulas {
			t.Errorf("expected strict formulas from environment")
		}
		if !cfg.Engine.EngineOptions().StrictFormulas {
			t.Errorf("EngineOptions() dropped StrictFormulas")
		}
	})

	t.Run("environment beats config file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "server:\n  port: 9090\n  max_batch_size: 5\n")
		t.Setenv("PX_SERVER_PORT", "8080")

		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected env port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Server.MaxBatchSize != 5 {
			t.Errorf("expected file max_batch_size 5, got %d", cfg.Server.MaxBatchSize)
		}
	})

	t.Run("flags beat environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_SERVER_PORT", "8080")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("port", 50061, "")
		flags.String("host", "0.0.0.0", "")
		if err := flags.Parse([]string{"--port", "7070"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load("", flags)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 7070 {
			t.Errorf("expected flag port 7070, got %d", cfg.Server.Port)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("unset flag must not override, got host %s", cfg.Server.Host)
		}
	})

	t.Run("secret in config file rejected", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "server:\n  host: localhost\n  hmac_secret: should_be_rejected\n")

		_, err := Load(path, nil)
		if err == nil {
			t.Fatal("expected error for secret in config file")
		}
		if err.Error() != "HMAC secrets not allowed in config files (use PX_HMAC_SECRET environment variable)" {
			t.Errorf("wrong error message: %v", err)
		}
	})

	t.Run("secret in environment accepted", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_HMAC_SECRET", testSecretA)
		if _, err := Load("", nil); err != nil {
			t.Errorf("Load failed with env secret: %v", err)
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_SERVER_PORT", "70000")
		if _, err := Load("", nil); err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("negative max parameters", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PX_ENGINE_MAX_PARAMETERS", "-1")
		if _, err := Load("", nil); err == nil {
			t.Error("expected error for negative max_parameters")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
