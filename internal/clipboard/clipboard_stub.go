//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

// WritePNG is unsupported on this platform.
func WritePNG([]byte) error {
	return errors.New("clipboard image operations are not supported on this platform")
}
