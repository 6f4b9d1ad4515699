package hotkey

import (
	"fmt"
	"strings"
)

// Windows virtual key codes for the modifiers and named keys the config
// accepts. Letters, digits and function keys are computed.
const (
	VKShift    uint16 = 0x10
	VKControl  uint16 = 0x11
	VKMenu     uint16 = 0x12 // Alt
	VKLWin     uint16 = 0x5B
	VKBacktick uint16 = 0xC0 // VK_OEM_3, `~ on US layouts
)

var namedKeys = map[string]uint16{
	"backtick":  VKBacktick,
	"`":         VKBacktick,
	"space":     0x20,
	"enter":     0x0D,
	"esc":       0x1B,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"pause":     0x13,
}

var modifiers = map[string]uint16{
	"ctrl":    VKControl,
	"control": VKControl,
	"shift":   VKShift,
	"alt":     VKMenu,
	"win":     VKLWin,
	"windows": VKLWin,
	"none":    0,
	"":        0,
}

// VKCode resolves a key name from the config file to a virtual key code.
func VKCode(name string) (uint16, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedKeys[key]; ok {
		return code, nil
	}
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 0x41), nil
		case c >= '0' && c <= '9':
			return uint16(c - '0' + 0x30), nil
		}
	}
	if strings.HasPrefix(key, "f") {
		var n int
		if _, err := fmt.Sscanf(key, "f%d", &n); err == nil && n >= 1 && n <= 12 {
			return uint16(0x70 + n - 1), nil
		}
	}
	return 0, fmt.Errorf("hotkey: unknown key %q", name)
}

// ModifierCode resolves a modifier name ("ctrl", "alt", "shift", "win",
// "none") to a virtual key code. An empty name means no modifier.
func ModifierCode(name string) (uint16, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if code, ok := modifiers[key]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("hotkey: unknown modifier %q", name)
}

// VKName renders a virtual key code for logs and the dashboard. Unknown
// codes come back in hex form.
func VKName(vk uint16) string {
	switch vk {
	case 0:
		return "none"
	case VKControl:
		return "ctrl"
	case VKShift:
		return "shift"
	case VKMenu:
		return "alt"
	case VKLWin, 0x5C:
		return "win"
	case VKBacktick:
		return "backtick"
	}
	for name, code := range namedKeys {
		if code == vk && name != "`" {
			return name
		}
	}
	switch {
	case vk >= 0x41 && vk <= 0x5A:
		return string(rune('a' + vk - 0x41))
	case vk >= 0x30 && vk <= 0x39:
		return string(rune('0' + vk - 0x30))
	case vk >= 0x70 && vk <= 0x7B:
		return fmt.Sprintf("f%d", vk-0x70+1)
	}
	return fmt.Sprintf("vk(0x%02X)", vk)
}
