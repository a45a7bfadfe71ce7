//go:build windows

package scanner

import (
	"errors"
	"syscall"
)

// WSAECONNREFUSED; winsock reports refusals with its own code.
const wsaeconnrefused syscall.Errno = 10061

func isRefused(err error) bool {
	return errors.Is(err, wsaeconnrefused) || errors.Is(err, syscall.ECONNREFUSED)
}
