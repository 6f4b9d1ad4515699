//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// AcquireSingleInstance claims a named mutex so a second launch can detect
// the first and bow out. The returned release func is safe to call once at
// shutdown; the OS also reclaims the mutex when the process dies.
func AcquireSingleInstance(name string) (func(), error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}

	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err == windows.ERROR_ALREADY_EXISTS {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		return nil, fmt.Errorf("another instance is already running")
	}
	if err != nil {
		return nil, fmt.Errorf("CreateMutex failed: %w", err)
	}

	return func() { windows.CloseHandle(handle) }, nil
}
