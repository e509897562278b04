//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package display

import "errors"

var listMonitors = func() ([]Monitor, error) {
	return nil, errors.New("display query is not supported on this platform")
}
