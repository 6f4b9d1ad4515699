//go:build !windows

package platform

import (
	"context"
	"fmt"
)

type stubHook struct{}

// NewHook returns a hook that always refuses to install. The app keeps
// running without hotkey capability, same as an install refusal on Windows.
func NewHook() Hook {
	return stubHook{}
}

// ModifierDown always reports unheld off Windows.
func ModifierDown(vk uint16) bool { return false }

func (stubHook) Listen(ctx context.Context, classify Classifier) (<-chan struct{}, error) {
	return nil, &HookInstallError{Err: fmt.Errorf("keyboard hooks are only supported on Windows")}
}
