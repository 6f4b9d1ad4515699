//go:build !windows

package inject

import "fmt"

// NewSender returns an error on platforms without synthetic input support.
func NewSender() (Sender, error) {
	return nil, fmt.Errorf("text injection is only supported on Windows")
}
