package config

import (
	"errors"
	"testing"
)

// mockBackend is an in-memory ConfigBackend for tests.
type mockBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (m *mockBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *mockBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mockBackend) SetString(key, val string) error { return nil }
func (m *mockBackend) SetInt(key string, val int) error { return nil }
func (m *mockBackend) Delete(key string) error          { return nil }

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
	t.Setenv("GEMINI_API_KEY", "")
}

// TestDefaults verifies all default values are applied with an empty backend.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(&mockBackend{}, mockKeychain{err: errors.New("no keychain")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash-image" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-2.5-flash-image")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Client.BaseURL != "http://127.0.0.1:3000" {
		t.Errorf("Client.BaseURL = %q, want derived from port", cfg.Client.BaseURL)
	}
}

// TestMissingAPIKeyNotFatal verifies config loads without a credential;
// generation surfaces the problem later, at call time.
func TestMissingAPIKeyNotFatal(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(&mockBackend{}, mockKeychain{err: errors.New("no keychain")})
	if err != nil {
		t.Fatalf("loadWith failed on missing API key: %v", err)
	}
	if cfg.Gemini.APIKey != "" {
		t.Errorf("Gemini.APIKey = %q, want empty", cfg.Gemini.APIKey)
	}
}

// TestBackendValues verifies backend values override defaults.
func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := &mockBackend{
		strings: map[string]string{"gemini.model": "gemini-3-image", "log.level": "debug"},
		ints:    map[string]int{"server.port": 8080},
	}
	cfg, err := loadWith(b, mockKeychain{err: errors.New("no keychain")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-3-image" {
		t.Errorf("Gemini.Model = %q, want backend value", cfg.Gemini.Model)
	}
	if cfg.Client.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("Client.BaseURL = %q, want derived from backend port", cfg.Client.BaseURL)
	}
}

// TestEnvOverride verifies environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PHOTOSTUDIO_SERVER_PORT", "9999")
	t.Setenv("PHOTOSTUDIO_GEMINI_API_KEY", "env-key")

	b := &mockBackend{ints: map[string]int{"server.port": 8080}}
	cfg, err := loadWith(b, mockKeychain{value: "keychain-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want env override 9999", cfg.Server.Port)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("Gemini.APIKey = %q, want env value over keychain", cfg.Gemini.APIKey)
	}
}

// TestGeminiEnvFallback verifies the bare GEMINI_API_KEY variable is honored.
func TestGeminiEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "bare-key")

	cfg, err := loadWith(&mockBackend{}, mockKeychain{err: errors.New("no keychain")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "bare-key" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "bare-key")
	}
}

// TestKeychainFallback verifies the secret store is consulted last.
func TestKeychainFallback(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(&mockBackend{}, mockKeychain{value: "kc-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "kc-key" {
		t.Errorf("Gemini.APIKey = %q, want keychain value", cfg.Gemini.APIKey)
	}
}

// TestShowAllHidesSecrets verifies the secret key never appears in config listings.
func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Gemini.APIKey = "super-secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "gemini.api_key" {
			t.Error("ShowAll exposed the secret key")
		}
		if info.Value == "super-secret" {
			t.Errorf("ShowAll leaked the secret value under %s", info.Key)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) == 0 {
		t.Fatal("ValidKeys returned nothing")
	}
	for _, k := range keys {
		if k == "gemini.api_key" {
			t.Error("secret key listed as settable")
		}
	}
}
