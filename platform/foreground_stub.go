//go:build !windows

package platform

import "fmt"

type stubForeground struct{}

// NewForeground returns a foreground capability that cannot raise windows.
func NewForeground() Foreground {
	return stubForeground{}
}

func (stubForeground) Current() Handle { return 0 }

func (stubForeground) Raise(handle Handle) error {
	if handle == 0 {
		return nil
	}
	return fmt.Errorf("foreground control is only supported on Windows")
}
