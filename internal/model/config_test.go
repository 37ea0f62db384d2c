package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.WebSocketURL != "ws://localhost:8080/ws" {
		t.Errorf("WebSocketURL = %q", cfg.Server.WebSocketURL)
	}
	if cfg.Server.RequestTimeoutSec != 30 {
		t.Errorf("RequestTimeoutSec = %d, want 30", cfg.Server.RequestTimeoutSec)
	}
	if cfg.Notifications.MaxReconnectAttempts != 5 {
		t.Errorf("MaxReconnectAttempts = %d, want 5", cfg.Notifications.MaxReconnectAttempts)
	}
	if !cfg.Notifications.Desktop {
		t.Error("Desktop = false, want true by default")
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  base_url: https://team.example.com/api\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.BaseURL != "https://team.example.com/api" {
		t.Errorf("BaseURL = %q, want overridden value", cfg.Server.BaseURL)
	}
	// Unset keys fall back to defaults.
	if cfg.Server.RequestTimeoutSec != 30 {
		t.Errorf("RequestTimeoutSec = %d, want default 30", cfg.Server.RequestTimeoutSec)
	}
	if cfg.Notifications.MaxReconnectAttempts != 5 {
		t.Errorf("MaxReconnectAttempts = %d, want default 5", cfg.Notifications.MaxReconnectAttempts)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &AppConfig{
		Server: ServerConfig{
			BaseURL:           "https://team.example.com/api",
			WebSocketURL:      "wss://team.example.com/ws",
			RequestTimeoutSec: 10,
		},
		Notifications: NotificationsConfig{
			Desktop:              false,
			MaxReconnectAttempts: 3,
		},
		Display: DisplayConfig{Theme: "dark"},
	}

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded.Server.BaseURL != cfg.Server.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.Server.BaseURL, cfg.Server.BaseURL)
	}
	if loaded.Server.RequestTimeoutSec != 10 {
		t.Errorf("RequestTimeoutSec = %d, want 10", loaded.Server.RequestTimeoutSec)
	}
	if loaded.Notifications.MaxReconnectAttempts != 3 {
		t.Errorf("MaxReconnectAttempts = %d, want 3", loaded.Notifications.MaxReconnectAttempts)
	}
	if loaded.Display.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", loaded.Display.Theme)
	}
}
