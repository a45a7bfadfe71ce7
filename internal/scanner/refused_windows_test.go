//go:build windows

package scanner

import (
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRefused_Winsock(t *testing.T) {
	err := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connectex", wsaeconnrefused)}
	assert.True(t, isRefused(err))
}
