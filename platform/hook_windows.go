//go:build windows

package platform

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"overtype/hotkey"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	peekMessage         = user32.NewProc("PeekMessageW")
	getAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	pmRemove     = 0x0001
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// keyboardHook observes every keystroke through a WH_KEYBOARD_LL hook. The
// hook proc runs synchronously with system-wide input delivery and Windows
// revokes hooks that stall, so it does nothing but classify and hand off.
type keyboardHook struct {
	mu       sync.Mutex
	classify Classifier
	fired    chan struct{}
	hook     uintptr
	done     chan struct{}
}

// NewHook returns the low-level keyboard hook.
func NewHook() Hook {
	return &keyboardHook{}
}

// ModifierDown reports whether a virtual key is physically held right now.
func ModifierDown(vk uint16) bool {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}

func (h *keyboardHook) Listen(ctx context.Context, classify Classifier) (<-chan struct{}, error) {
	h.mu.Lock()
	h.classify = classify
	h.fired = make(chan struct{}, 10)
	h.done = make(chan struct{})
	h.mu.Unlock()

	errCh := make(chan error, 1)
	go h.runHook(errCh)

	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	go func() {
		<-ctx.Done()
		close(h.done)
		h.uninstall()
	}()

	return h.fired, nil
}

// uninstall is idempotent; safe when install failed or already tore down.
func (h *keyboardHook) uninstall() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hook != 0 {
		unhookWindowsHookEx.Call(h.hook)
		h.hook = 0
	}
}

func (h *keyboardHook) runHook(errCh chan<- error) {
	// The hook must live on the thread that pumps its messages.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			h.handleKeyEvent(wParam, kbInfo)
		}
		// Always forward; this hook observes, it never swallows.
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	hook, _, err := setWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)
	if hook == 0 {
		code := uintptr(0)
		if errno, ok := err.(windows.Errno); ok {
			code = uintptr(errno)
		}
		errCh <- &HookInstallError{Code: code, Err: err}
		return
	}

	h.mu.Lock()
	h.hook = hook
	h.mu.Unlock()

	errCh <- nil

	var m msg
	for {
		select {
		case <-h.done:
			return
		default:
			r, _, _ := peekMessage.Call(
				uintptr(unsafe.Pointer(&m)),
				0,
				0,
				0,
				pmRemove,
			)
			if r != 0 {
				continue
			}
			runtime.Gosched()
		}
	}
}

func (h *keyboardHook) handleKeyEvent(wParam uintptr, kbInfo *kbdllhookstruct) {
	// Recover so no failure ever crosses the hook boundary; the event was
	// already forwarded by the proc regardless.
	defer func() {
		if r := recover(); r != nil {
			// Nothing safe to do here beyond dropping it.
			_ = r
		}
	}()

	var kind hotkey.KeyKind
	switch wParam {
	case wmKeydown:
		kind = hotkey.KeyDown
	case wmSyskeydown:
		kind = hotkey.SysKeyDown
	case wmKeyup:
		kind = hotkey.KeyUp
	case wmSyskeyup:
		kind = hotkey.SysKeyUp
	default:
		return
	}

	if !h.classify(kbInfo.vkCode, kind) {
		return
	}

	// Hand off and return immediately; slow consumers drop the trigger
	// rather than stall system-wide input delivery.
	select {
	case h.fired <- struct{}{}:
	default:
	}
}
