package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"overtype/hotkey"
)

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Hotkey.ModifierName != "ctrl" || cfg.Hotkey.KeyName != "backtick" {
		t.Errorf("default hotkey = %s+%s, want ctrl+backtick",
			cfg.Hotkey.ModifierName, cfg.Hotkey.KeyName)
	}
	if cfg.Injection.RetryCount != 3 || cfg.Injection.RetryDelayMs != 100 ||
		cfg.Injection.FocusRestoreDelayMs != 300 {
		t.Errorf("default injection settings = %+v", cfg.Injection)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}
}

func TestLoadFrom_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cfg.Hotkey.ModifierName = "alt"
	cfg.Hotkey.KeyName = "f9"
	cfg.Injection.RetryCount = 5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Hotkey.ModifierName != "alt" || loaded.Hotkey.KeyName != "f9" {
		t.Errorf("hotkey did not round-trip: %+v", loaded.Hotkey)
	}
	if loaded.Injection.RetryCount != 5 {
		t.Errorf("retry count did not round-trip: %d", loaded.Injection.RetryCount)
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("hotkey = {{{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestBinding_ResolvesNames(t *testing.T) {
	cfg := defaultConfig()

	b, err := cfg.Binding()
	if err != nil {
		t.Fatalf("Binding: %v", err)
	}
	if b.ModifierVK != hotkey.VKControl {
		t.Errorf("modifier vk = 0x%02X, want ctrl", b.ModifierVK)
	}
	if b.KeyVK != hotkey.VKBacktick {
		t.Errorf("key vk = 0x%02X, want backtick", b.KeyVK)
	}
	if b.RetryDelay != 100*time.Millisecond || b.FocusRestoreDelay != 300*time.Millisecond {
		t.Errorf("delays = %v/%v", b.RetryDelay, b.FocusRestoreDelay)
	}
}

func TestBinding_ExplicitCodesWin(t *testing.T) {
	cfg := defaultConfig()
	cfg.Hotkey.KeyVK = 0x41 // 'a', despite key_name saying backtick

	b, err := cfg.Binding()
	if err != nil {
		t.Fatalf("Binding: %v", err)
	}
	if b.KeyVK != 0x41 {
		t.Errorf("key vk = 0x%02X, want explicit 0x41", b.KeyVK)
	}
}

func TestBinding_NoModifier(t *testing.T) {
	cfg := defaultConfig()
	cfg.Hotkey.ModifierName = "none"

	b, err := cfg.Binding()
	if err != nil {
		t.Fatalf("Binding: %v", err)
	}
	if b.ModifierVK != 0 {
		t.Errorf("modifier vk = 0x%02X, want 0", b.ModifierVK)
	}
}

func TestBinding_InvalidKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Hotkey.KeyName = "notakey"
	if _, err := cfg.Binding(); err == nil {
		t.Error("expected error for unknown key name")
	}

	cfg = defaultConfig()
	cfg.Hotkey.KeyName = ""
	if _, err := cfg.Binding(); err == nil {
		t.Error("expected error for missing key")
	}
}
