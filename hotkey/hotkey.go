// Package hotkey defines the hotkey binding and the classification of raw
// key events against it. Classification is a pure function so the low-level
// hook can call it on its latency-sensitive delivery thread without touching
// shared mutable state.
package hotkey

import (
	"errors"
	"fmt"
	"time"
)

// KeyKind identifies the transition type of an observed key event.
type KeyKind int

const (
	KeyDown KeyKind = iota
	KeyUp
	SysKeyDown // key-down with an Alt chord held
	SysKeyUp
)

// Binding is the immutable per-session hotkey configuration. It is replaced
// wholesale when the user changes the hotkey; the hook re-reads it on every
// event, so no reinstallation is needed.
type Binding struct {
	ModifierVK   uint16 // 0 means no modifier required
	KeyVK        uint16
	ModifierName string
	KeyName      string

	RetryCount        int
	RetryDelay        time.Duration
	FocusRestoreDelay time.Duration
}

var (
	ErrNoKey         = errors.New("hotkey: key code must be non-zero")
	ErrNegativeRetry = errors.New("hotkey: retry count must not be negative")
	ErrNegativeDelay = errors.New("hotkey: delays must not be negative")
)

// Validate checks the Binding invariants.
func (b Binding) Validate() error {
	if b.KeyVK == 0 {
		return ErrNoKey
	}
	if b.RetryCount < 0 {
		return ErrNegativeRetry
	}
	if b.RetryDelay < 0 || b.FocusRestoreDelay < 0 {
		return ErrNegativeDelay
	}
	return nil
}

// String renders the binding for logs and the tray tooltip.
func (b Binding) String() string {
	key := b.KeyName
	if key == "" {
		key = fmt.Sprintf("vk(0x%02X)", b.KeyVK)
	}
	if b.ModifierVK == 0 {
		return key
	}
	mod := b.ModifierName
	if mod == "" {
		mod = fmt.Sprintf("vk(0x%02X)", b.ModifierVK)
	}
	return mod + "+" + key
}

// ModifierState reports whether a virtual key is currently held. The hook
// supplies GetAsyncKeyState on Windows; tests supply a fake.
type ModifierState func(vk uint16) bool

// Matches reports whether an observed key event triggers the binding.
// Only key-down transitions match; the Alt-chorded key-down variant counts.
// When the binding has no modifier, modifier state is not consulted.
func Matches(vk uint32, kind KeyKind, b Binding, held ModifierState) bool {
	if kind != KeyDown && kind != SysKeyDown {
		return false
	}
	if vk != uint32(b.KeyVK) {
		return false
	}
	if b.ModifierVK == 0 {
		return true
	}
	return held != nil && held(b.ModifierVK)
}
