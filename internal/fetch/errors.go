package fetch

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Failure kinds. Callers use errors.Is to decide whether to try the next
// URL variant or give up on the site.
var (
	ErrDNS       = errors.New("dns lookup failed")
	ErrRefused   = errors.New("connection refused")
	ErrTimeout   = errors.New("request timed out")
	ErrForbidden = errors.New("access forbidden")
	ErrNotFound  = errors.New("page not found")
	ErrTooSmall  = errors.New("response too small")
	ErrBlocked   = errors.New("disallowed by robots.txt")
)

// classify maps a transport error or HTTP status to a labeled failure.
// The original cause is preserved in the wrap chain.
func classify(url string, status int, err error) error {
	switch {
	case err != nil:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return fmt.Errorf("fetch %s: %w: %v", url, ErrDNS, err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("fetch %s: %w: %v", url, ErrTimeout, err)
		}
		if strings.Contains(err.Error(), "connection refused") {
			return fmt.Errorf("fetch %s: %w: %v", url, ErrRefused, err)
		}
		return fmt.Errorf("fetch %s: %w", url, err)
	case status == 403:
		return fmt.Errorf("fetch %s: %w (status %d)", url, ErrForbidden, status)
	case status == 404:
		return fmt.Errorf("fetch %s: %w (status %d)", url, ErrNotFound, status)
	default:
		return fmt.Errorf("fetch %s: unexpected status %d", url, status)
	}
}
