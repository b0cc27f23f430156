package etsy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// TransportError 请求未拿到任何 HTTP 响应 (DNS、连接失败等)
type TransportError struct {
	Code string
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s - %s", e.Code, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError 非 2xx 响应 (401/403 除外)
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d - %s", e.Status, e.URL)
}

func newTransportError(err error, url string) *TransportError {
	return &TransportError{Code: errorCode(err), URL: url, Err: err}
}

// errorCode 把底层网络错误映射为稳定的错误码
func errorCode(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "ECANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "EHOSTUNREACH"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "ENOTFOUND"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT"
	}
	return "ERR_NETWORK"
}
