package utils

import (
	"context"
	"net"
	"time"
)

/**
 * Check whether a TCP address accepts connections
 * @param {string} addr - host:port to probe
 * @returns {bool} true when a connection could be established
 */
func CheckAddrConnectable(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

/**
 * Wait until a TCP address accepts connections
 * @param {context.Context} ctx - Bounds the wait; cancellation aborts the poll
 * @param {string} addr - host:port to probe
 * @param {time.Duration} interval - Poll interval
 * @returns {error} ctx.Err() when cancelled before the address came up
 */
func WaitAddrReady(ctx context.Context, addr string, interval time.Duration) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if CheckAddrConnectable(addr) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
