package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAddrConnectable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, CheckAddrConnectable(ln.Addr().String()))
	assert.False(t, CheckAddrConnectable("127.0.0.1:1"))
}

func TestWaitAddrReady(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, WaitAddrReady(ctx, ln.Addr().String(), 10*time.Millisecond))
}

func TestWaitAddrReadyCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := WaitAddrReady(ctx, "127.0.0.1:1", 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
