//go:build !windows

package platform

// AcquireSingleInstance is a no-op off Windows.
func AcquireSingleInstance(name string) (func(), error) {
	return func() {}, nil
}
