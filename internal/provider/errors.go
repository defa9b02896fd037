package provider

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrAuthExpired marks a rejected bearer token. Callers surface it with
// an instruction to re-authenticate rather than retrying.
var ErrAuthExpired = errors.New("authentication expired")

// Classify maps a remote-call failure into the error taxonomy: auth
// expiry is wrapped in ErrAuthExpired, everything else passes through
// and is treated as transient by the engine.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return errors.Join(ErrAuthExpired, err)
	}
	return err
}

// IsAuthExpired reports whether err indicates a rejected token.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsTransient reports whether err looks like a connectivity failure
// worth retrying later: timeouts, cancelled contexts, and network-level
// errors, but never an auth rejection.
func IsTransient(err error) bool {
	if err == nil || IsAuthExpired(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500 || apiErr.Code == http.StatusTooManyRequests
	}
	return true
}
