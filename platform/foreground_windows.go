//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	getForegroundWindow      = user32.NewProc("GetForegroundWindow")
	setForegroundWindow      = user32.NewProc("SetForegroundWindow")
	getWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	attachThreadInput        = user32.NewProc("AttachThreadInput")
	isWindow                 = user32.NewProc("IsWindow")
	getCurrentThreadId       = kernel32.NewProc("GetCurrentThreadId")
)

type foreground struct{}

// NewForeground returns the foreground window capability.
func NewForeground() Foreground {
	return foreground{}
}

func (foreground) Current() Handle {
	h, _, _ := getForegroundWindow.Call()
	return Handle(h)
}

// Raise forces handle to the foreground. Windows refuses foreground changes
// requested by a background thread, so the calling thread's input state is
// temporarily attached to the thread that owns the target window, the change
// is requested, and the attachment is dropped again. When both are the same
// thread the attach step is skipped and the request goes out directly.
func (foreground) Raise(handle Handle) error {
	if handle == 0 {
		return nil
	}
	if ok, _, _ := isWindow.Call(uintptr(handle)); ok == 0 {
		return fmt.Errorf("window %#x no longer exists", uintptr(handle))
	}

	targetThread, _, _ := getWindowThreadProcessId.Call(uintptr(handle), 0)
	currentThread, _, _ := getCurrentThreadId.Call()

	if targetThread != currentThread && targetThread != 0 {
		attachThreadInput.Call(currentThread, targetThread, 1)
		defer attachThreadInput.Call(currentThread, targetThread, 0)
	}

	ret, _, err := setForegroundWindow.Call(uintptr(handle))
	if ret == 0 {
		return fmt.Errorf("SetForegroundWindow(%#x) refused: %w", uintptr(handle), err)
	}
	return nil
}
