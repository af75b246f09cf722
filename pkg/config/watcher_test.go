package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	initial := []byte("providers:\n  openai:\n    api_key: sk-old\n")
	if err := os.WriteFile(path, initial, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	w := NewWatcher(path, nil)
	go func() {
		_ = w.Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before mutating the file
	time.Sleep(200 * time.Millisecond)

	updated := []byte("providers:\n  openai:\n    api_key: sk-new\n")
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		t.Fatalf("failed to update config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Providers["openai"].APIKey != "sk-new" {
			t.Errorf("expected reloaded key sk-new, got %q", cfg.Providers["openai"].APIKey)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherKeepsRunningOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("server:\n  listen_address: ':9000'\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 2)
	w := NewWatcher(path, nil)
	go func() {
		_ = w.Watch(ctx, func(cfg *Config) {
			reloaded <- cfg
		})
	}()

	time.Sleep(200 * time.Millisecond)

	// A broken file must be skipped without invoking the callback
	if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
		t.Fatalf("failed to write broken config: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	select {
	case <-reloaded:
		t.Fatal("broken config must not trigger a reload")
	default:
	}

	// A subsequent good write recovers
	if err := os.WriteFile(path, []byte("server:\n  listen_address: ':9100'\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.ListenAddress != ":9100" {
			t.Errorf("expected reloaded address :9100, got %q", cfg.Server.ListenAddress)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for recovery reload")
	}
}
