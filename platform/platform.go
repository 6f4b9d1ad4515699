// Package platform isolates the OS-level primitives the pipeline needs: the
// system-wide keyboard observation hook, foreground window control, and
// process single-instance enforcement.
package platform

import (
	"context"
	"fmt"

	"overtype/hotkey"
)

// Handle identifies a top-level window. The zero Handle means "no window";
// a non-zero Handle may refer to a window that has since been destroyed.
type Handle uintptr

// Classifier decides on the hook's delivery thread whether an observed key
// transition triggers the hotkey. It must be fast and must not block.
type Classifier func(vk uint32, kind hotkey.KeyKind) bool

// Hook observes every keyboard transition in the system and reports hotkey
// triggers. The observed keystroke is never consumed; the hook only watches.
type Hook interface {
	// Listen installs the hook and returns the fired-notification channel.
	// Install refusal surfaces as *HookInstallError; the caller is expected
	// to continue without hotkey capability. The hook is removed when ctx
	// is cancelled.
	Listen(ctx context.Context, classify Classifier) (<-chan struct{}, error)
}

// HookInstallError reports that the platform refused to register the
// keyboard hook. Fatal to the hotkey feature only, not to the process.
type HookInstallError struct {
	Code uintptr // platform error code
	Err  error
}

func (e *HookInstallError) Error() string {
	return fmt.Sprintf("keyboard hook install refused (code %d): %v", e.Code, e.Err)
}

func (e *HookInstallError) Unwrap() error { return e.Err }

// Foreground is the narrow capability for reading and forcing the active
// foreground window. Raise performs the thread-input attach/detach dance
// internally; callers never touch thread attachment state.
type Foreground interface {
	// Current returns the window that presently holds foreground focus.
	Current() Handle
	// Raise makes handle the foreground window. Raising a destroyed window
	// fails; callers treat that as an expected outcome and swallow it.
	Raise(handle Handle) error
}
