package hotkey

import (
	"testing"
	"time"
)

func testBinding() Binding {
	return Binding{
		ModifierVK:        VKControl,
		KeyVK:             VKBacktick,
		RetryCount:        3,
		RetryDelay:        100 * time.Millisecond,
		FocusRestoreDelay: 300 * time.Millisecond,
	}
}

func heldSet(vks ...uint16) ModifierState {
	return func(vk uint16) bool {
		for _, h := range vks {
			if h == vk {
				return true
			}
		}
		return false
	}
}

func TestMatches_ModifierHeld(t *testing.T) {
	b := testBinding()

	if !Matches(uint32(VKBacktick), KeyDown, b, heldSet(VKControl)) {
		t.Error("expected match with modifier held on key-down")
	}
	if !Matches(uint32(VKBacktick), SysKeyDown, b, heldSet(VKControl)) {
		t.Error("expected match on Alt-chorded key-down variant")
	}
}

func TestMatches_ModifierNotHeld(t *testing.T) {
	b := testBinding()

	if Matches(uint32(VKBacktick), KeyDown, b, heldSet()) {
		t.Error("matched without modifier held")
	}
	if Matches(uint32(VKBacktick), KeyDown, b, heldSet(VKShift)) {
		t.Error("matched with the wrong modifier held")
	}
}

func TestMatches_KeyUpNeverMatches(t *testing.T) {
	b := testBinding()

	if Matches(uint32(VKBacktick), KeyUp, b, heldSet(VKControl)) {
		t.Error("matched on key-up")
	}
	if Matches(uint32(VKBacktick), SysKeyUp, b, heldSet(VKControl)) {
		t.Error("matched on sys key-up")
	}
}

func TestMatches_WrongKey(t *testing.T) {
	b := testBinding()

	if Matches(0x41, KeyDown, b, heldSet(VKControl)) {
		t.Error("matched on a different key")
	}
}

func TestMatches_NoModifierConfigured(t *testing.T) {
	b := testBinding()
	b.ModifierVK = 0

	// Modifier state must not be consulted at all.
	if !Matches(uint32(VKBacktick), KeyDown, b, nil) {
		t.Error("expected match with no modifier configured")
	}
}

func TestBindingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Binding)
		wantErr error
	}{
		{"valid", func(b *Binding) {}, nil},
		{"zero key", func(b *Binding) { b.KeyVK = 0 }, ErrNoKey},
		{"negative retries", func(b *Binding) { b.RetryCount = -1 }, ErrNegativeRetry},
		{"negative retry delay", func(b *Binding) { b.RetryDelay = -time.Second }, ErrNegativeDelay},
		{"negative restore delay", func(b *Binding) { b.FocusRestoreDelay = -time.Second }, ErrNegativeDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBinding()
			tt.mutate(&b)
			if err := b.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVKCode(t *testing.T) {
	tests := []struct {
		name string
		want uint16
	}{
		{"backtick", VKBacktick},
		{"`", VKBacktick},
		{"a", 0x41},
		{"Z", 0x5A},
		{"0", 0x30},
		{"9", 0x39},
		{"f1", 0x70},
		{"f12", 0x7B},
		{"space", 0x20},
		{"enter", 0x0D},
	}

	for _, tt := range tests {
		got, err := VKCode(tt.name)
		if err != nil {
			t.Errorf("VKCode(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("VKCode(%q) = 0x%02X, want 0x%02X", tt.name, got, tt.want)
		}
	}

	if _, err := VKCode("nosuchkey"); err == nil {
		t.Error("expected error for unknown key name")
	}
}

func TestModifierCode(t *testing.T) {
	for name, want := range map[string]uint16{
		"ctrl": VKControl, "Control": VKControl, "shift": VKShift,
		"alt": VKMenu, "win": VKLWin, "none": 0, "": 0,
	} {
		got, err := ModifierCode(name)
		if err != nil {
			t.Errorf("ModifierCode(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ModifierCode(%q) = 0x%02X, want 0x%02X", name, got, want)
		}
	}

	if _, err := ModifierCode("hyper"); err == nil {
		t.Error("expected error for unknown modifier")
	}
}

func TestVKNameRoundTrip(t *testing.T) {
	for _, name := range []string{"backtick", "a", "5", "f7", "space", "esc"} {
		code, err := VKCode(name)
		if err != nil {
			t.Fatalf("VKCode(%q): %v", name, err)
		}
		if got := VKName(code); got != name {
			t.Errorf("VKName(VKCode(%q)) = %q", name, got)
		}
	}
}

func TestBindingString(t *testing.T) {
	b := testBinding()
	b.ModifierName = "ctrl"
	b.KeyName = "backtick"
	if got := b.String(); got != "ctrl+backtick" {
		t.Errorf("String() = %q, want %q", got, "ctrl+backtick")
	}

	b.ModifierVK = 0
	if got := b.String(); got != "backtick" {
		t.Errorf("String() = %q, want %q", got, "backtick")
	}
}
