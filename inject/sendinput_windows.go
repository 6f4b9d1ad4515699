//go:build windows

package inject

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard    = 1
	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

// sendInputSender submits batches through SendInput with KEYEVENTF_UNICODE,
// so the text lands independent of the active keyboard layout.
type sendInputSender struct{}

// NewSender returns the SendInput-backed platform sender.
func NewSender() (Sender, error) {
	return &sendInputSender{}, nil
}

func (s *sendInputSender) Send(events []KeyEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	inputs := make([]input, len(events))
	for i, ev := range events {
		flags := uint32(keyeventfUnicode)
		if ev.Up {
			flags |= keyeventfKeyup
		}
		inputs[i] = input{
			inputType: inputKeyboard,
			ki: keyboardInput{
				wScan:   ev.Unit,
				dwFlags: flags,
			},
		}
	}

	ret, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)

	accepted := int(ret)
	if accepted == 0 {
		return 0, fmt.Errorf("SendInput failed: %w", err)
	}
	return accepted, nil
}
