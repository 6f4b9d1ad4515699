// Package config loads and saves the settings file and resolves it into the
// live hotkey binding.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"overtype/hotkey"
)

type Config struct {
	Hotkey    HotkeySettings    `toml:"hotkey"`
	Injection InjectionSettings `toml:"injection"`
	Web       WebSettings       `toml:"web"`
	Snippets  SnippetsSettings  `toml:"snippets"`
}

// HotkeySettings persists both the names shown to the user and the resolved
// virtual key codes. Codes win when both are present; names fill in codes
// that are zero.
type HotkeySettings struct {
	ModifierVK   uint16 `toml:"modifier_vk"`
	KeyVK        uint16 `toml:"key_vk"`
	ModifierName string `toml:"modifier_name"`
	KeyName      string `toml:"key_name"`
}

type InjectionSettings struct {
	RetryCount          int `toml:"retry_count"`
	RetryDelayMs        int `toml:"retry_delay_ms"`
	FocusRestoreDelayMs int `toml:"focus_restore_delay_ms"`
}

type WebSettings struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type SnippetsSettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty means the default location
}

// Default configuration: Ctrl+backtick, three retries 100ms apart, 300ms for
// the platform to finish the focus switch before typing begins.
func defaultConfig() *Config {
	return &Config{
		Hotkey: HotkeySettings{
			ModifierName: "ctrl",
			KeyName:      "backtick",
		},
		Injection: InjectionSettings{
			RetryCount:          3,
			RetryDelayMs:        100,
			FocusRestoreDelayMs: 300,
		},
		Web: WebSettings{
			Enabled: true,
			Port:    8094,
		},
		Snippets: SnippetsSettings{
			Enabled: true,
		},
	}
}

// Dir returns the application settings directory, creating it if needed.
func Dir() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	configDir := filepath.Join(appData, "overtype")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// Path returns the path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration, creating it with defaults on first run.
// A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Binding resolves the settings into a validated hotkey binding.
func (c *Config) Binding() (hotkey.Binding, error) {
	b := hotkey.Binding{
		ModifierVK:        c.Hotkey.ModifierVK,
		KeyVK:             c.Hotkey.KeyVK,
		ModifierName:      c.Hotkey.ModifierName,
		KeyName:           c.Hotkey.KeyName,
		RetryCount:        c.Injection.RetryCount,
		RetryDelay:        time.Duration(c.Injection.RetryDelayMs) * time.Millisecond,
		FocusRestoreDelay: time.Duration(c.Injection.FocusRestoreDelayMs) * time.Millisecond,
	}

	if b.KeyVK == 0 && c.Hotkey.KeyName != "" {
		vk, err := hotkey.VKCode(c.Hotkey.KeyName)
		if err != nil {
			return hotkey.Binding{}, err
		}
		b.KeyVK = vk
	}
	if b.ModifierVK == 0 && c.Hotkey.ModifierName != "" {
		vk, err := hotkey.ModifierCode(c.Hotkey.ModifierName)
		if err != nil {
			return hotkey.Binding{}, err
		}
		b.ModifierVK = vk
	}
	if b.ModifierName == "" {
		b.ModifierName = hotkey.VKName(b.ModifierVK)
	}
	if b.KeyName == "" {
		b.KeyName = hotkey.VKName(b.KeyVK)
	}

	if err := b.Validate(); err != nil {
		return hotkey.Binding{}, err
	}
	return b, nil
}
