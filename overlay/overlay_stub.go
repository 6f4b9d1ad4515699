//go:build !windows

package overlay

import "fmt"

// New fails off Windows; the capture surface needs a native window.
func New() (Surface, error) {
	return nil, fmt.Errorf("the capture surface is only supported on Windows")
}
