//go:build windows

package overlay

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"overtype/platform"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	registerClassEx      = user32.NewProc("RegisterClassExW")
	createWindowEx       = user32.NewProc("CreateWindowExW")
	defWindowProc        = user32.NewProc("DefWindowProcW")
	showWindow           = user32.NewProc("ShowWindow")
	setFocus             = user32.NewProc("SetFocus")
	setWindowText        = user32.NewProc("SetWindowTextW")
	getWindowTextLength  = user32.NewProc("GetWindowTextLengthW")
	getWindowText        = user32.NewProc("GetWindowTextW")
	postMessage          = user32.NewProc("PostMessageW")
	getMessage           = user32.NewProc("GetMessageW")
	translateMessage     = user32.NewProc("TranslateMessage")
	dispatchMessage      = user32.NewProc("DispatchMessageW")
	getSystemMetrics     = user32.NewProc("GetSystemMetrics")
	loadCursor           = user32.NewProc("LoadCursorW")
	getModuleHandle      = kernel32.NewProc("GetModuleHandleW")
)

const (
	wsPopup        = 0x80000000
	wsBorder       = 0x00800000
	wsChild        = 0x40000000
	wsVisibleStyle = 0x10000000
	esAutoHScroll  = 0x0080

	wsExTopmost    = 0x00000008
	wsExToolWindow = 0x00000080

	swShow = 5
	swHide = 0

	wmActivate = 0x0006
	wmClose    = 0x0010
	wmKeydown  = 0x0100
	waInactive = 0

	vkReturn = 0x0D
	vkEscape = 0x1B

	smCxScreen = 0
	smCyScreen = 1

	idcArrow = 32512

	// Cross-thread commands posted onto the window's own thread.
	wmAppShow = 0x8000 + 1
	wmAppHide = 0x8000 + 2

	surfaceWidth  = 480
	surfaceHeight = 36
)

type wndclassex struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

type message struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// winSurface is a borderless topmost popup holding one edit control. All
// window state lives on the locked pump thread; the rest of the app talks
// to it through posted messages and the events channel.
type winSurface struct {
	hwnd    uintptr
	edit    uintptr
	events  chan Event
	visible bool
	// suppress marks a hide commanded by the coordinator, which must not be
	// reported as a spontaneous visibility change.
	suppress bool
}

// New creates the capture surface window on its own message pump thread.
func New() (Surface, error) {
	s := &winSurface{events: make(chan Event, 16)}

	errCh := make(chan error, 1)
	go s.run(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}
	return s, nil
}

func (s *winSurface) ShowAndFocus() {
	postMessage.Call(s.hwnd, wmAppShow, 0, 0)
}

func (s *winSurface) Hide() {
	postMessage.Call(s.hwnd, wmAppHide, 0, 0)
}

func (s *winSurface) Handle() platform.Handle {
	return platform.Handle(s.hwnd)
}

func (s *winSurface) Events() <-chan Event {
	return s.events
}

func (s *winSurface) run(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := s.createWindow(); err != nil {
		errCh <- err
		return
	}
	errCh <- nil

	var m message
	for {
		ret, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		// The edit control owns keyboard focus while the surface is up, so
		// Enter and Esc are intercepted here before translation.
		if m.message == wmKeydown && m.hwnd == s.edit {
			switch m.wParam {
			case vkReturn:
				s.submit()
				continue
			case vkEscape:
				s.dismiss()
				continue
			}
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (s *winSurface) createWindow() error {
	className, _ := windows.UTF16PtrFromString("OvertypeCapture")
	hInstance, _, _ := getModuleHandle.Call(0)
	cursor, _, _ := loadCursor.Call(0, idcArrow)

	wc := wndclassex{
		cbSize:        uint32(unsafe.Sizeof(wndclassex{})),
		lpfnWndProc:   windows.NewCallback(s.windowProc),
		hInstance:     hInstance,
		hCursor:       cursor,
		lpszClassName: className,
	}
	if ret, _, err := registerClassEx.Call(uintptr(unsafe.Pointer(&wc))); ret == 0 {
		return fmt.Errorf("RegisterClassEx failed: %w", err)
	}

	screenW, _, _ := getSystemMetrics.Call(smCxScreen)
	screenH, _, _ := getSystemMetrics.Call(smCyScreen)
	x := (int(screenW) - surfaceWidth) / 2
	y := int(screenH) / 3

	hwnd, _, err := createWindowEx.Call(
		wsExTopmost|wsExToolWindow,
		uintptr(unsafe.Pointer(className)),
		0,
		wsPopup|wsBorder,
		uintptr(x), uintptr(y), surfaceWidth, surfaceHeight,
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowEx failed: %w", err)
	}
	s.hwnd = hwnd

	editClass, _ := windows.UTF16PtrFromString("EDIT")
	edit, _, err := createWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(editClass)),
		0,
		wsChild|wsVisibleStyle|esAutoHScroll,
		4, 4, surfaceWidth-8, surfaceHeight-8,
		hwnd, 0, hInstance, 0,
	)
	if edit == 0 {
		return fmt.Errorf("CreateWindowEx for edit control failed: %w", err)
	}
	s.edit = edit

	return nil
}

func (s *winSurface) windowProc(hwnd uintptr, m uint32, wParam, lParam uintptr) uintptr {
	switch m {
	case wmAppShow:
		setWindowText.Call(s.edit, 0)
		showWindow.Call(s.hwnd, swShow)
		setFocus.Call(s.edit)
		s.visible = true
		return 0
	case wmAppHide:
		s.suppress = true
		showWindow.Call(s.hwnd, swHide)
		s.visible = false
		s.suppress = false
		return 0
	case wmActivate:
		// Losing activation while up means the user clicked away.
		if wParam&0xFFFF == waInactive && s.visible && !s.suppress {
			s.dismiss()
		}
		return 0
	case wmClose:
		s.dismiss()
		return 0
	}
	ret, _, _ := defWindowProc.Call(hwnd, uintptr(m), wParam, lParam)
	return ret
}

// submit hides the surface without a visibility event and reports the
// trimmed line. An empty line counts as a dismissal, not a submission.
func (s *winSurface) submit() {
	text := strings.TrimSpace(s.editText())

	s.suppress = true
	showWindow.Call(s.hwnd, swHide)
	s.visible = false
	s.suppress = false

	if text == "" {
		s.events <- Event{Kind: EventVisibility, Visible: false}
		return
	}
	s.events <- Event{Kind: EventSubmitted, Text: text}
}

func (s *winSurface) dismiss() {
	if !s.visible {
		return
	}
	s.suppress = true
	showWindow.Call(s.hwnd, swHide)
	s.visible = false
	s.suppress = false
	s.events <- Event{Kind: EventVisibility, Visible: false}
}

func (s *winSurface) editText() string {
	length, _, _ := getWindowTextLength.Call(s.edit)
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	getWindowText.Call(s.edit, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}
