package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Storage StorageConfig
	Client  ClientConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	DataDir string
}

type ClientConfig struct {
	// BaseURL of the photostudio server the CLI talks to. Derived from the
	// server port when empty.
	BaseURL string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 3000,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash-image",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.photostudio.app) and the
// API key falls back to macOS Keychain. On Linux the backend is a JSON file
// at $XDG_CONFIG_HOME/photostudio/config.json and the key falls back to a
// secrets file in the data dir.
//
// Environment variables (PHOTOSTUDIO_*) override backend values on all
// platforms; the bare GEMINI_API_KEY variable is honored for the credential.
//
// A missing API key is NOT a load error: generation reports it at call time
// so read-only operations (history, delete) keep working without a key.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts platform secret storage for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// The plain Gemini variable works too, matching the upstream SDK convention.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	// Last resort: platform secret store.
	if cfg.Gemini.APIKey == "" {
		if key, err := kc.Get(secretService, secretAccount); err == nil && key != "" {
			cfg.Gemini.APIKey = key
		}
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	}

	return cfg, nil
}

const (
	secretService = "photostudio"
	secretAccount = "gemini_api_key"
)

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SetAPIKey stores the Gemini credential in the platform secret store.
func SetAPIKey(value string) error {
	return keychainSet(secretService, secretAccount, value)
}
