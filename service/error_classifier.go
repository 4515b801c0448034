// ABOUTME: This file classifies errors for retry decisions
// ABOUTME: Distinguishes between temporary and permanent errors for resilient fetching
package service

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/mmcdole/gofeed"
)

// IsRetryableError determines if a fetch error should trigger a retry.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			return errno == syscall.ECONNREFUSED ||
				errno == syscall.ECONNRESET ||
				errno == syscall.ETIMEDOUT
		}
		if opErr.Timeout() {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var feedErr gofeed.HTTPError
	if errors.As(err, &feedErr) {
		return isRetryableHTTPStatus(feedErr.StatusCode)
	}

	return false
}

func isRetryableHTTPStatus(status int) bool {
	switch {
	case status >= 500 && status <= 599:
		return true
	case status == 408, status == 429:
		return true
	default:
		return false
	}
}
