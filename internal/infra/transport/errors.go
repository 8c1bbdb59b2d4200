package transport

import (
	"errors"
	"fmt"
)

// FailureClass classifies the outcome of a single request attempt.
type FailureClass int

const (
	Transient      FailureClass = iota // timeout, reset, mid-stream disconnect
	RateLimited                        // HTTP 429
	RegionTooLarge                     // contour exceeds the portal's result-size limit
	ClientError                        // 4xx other than 429/403
	ServerError                        // 5xx
	AccessBlocked                      // HTTP 403
	Fatal                              // unclassifiable
)

func (c FailureClass) String() string {
	switch c {
	case Transient:
		return "transient"
	case RateLimited:
		return "rate_limited"
	case RegionTooLarge:
		return "region_too_large"
	case ClientError:
		return "client_error"
	case ServerError:
		return "server_error"
	case AccessBlocked:
		return "access_blocked"
	}
	return "fatal"
}

// Error is a classified request failure. Status and Body are set for
// HTTP-level failures; Err carries the underlying cause for network-level
// ones.
type Error struct {
	Class   FailureClass
	Status  int
	Code    int // server error code parsed from the body, 0 when absent
	Message string
	Body    []byte
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Class, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: http %d: %s", e.Class, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: http %d", e.Class, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassOf extracts the failure class from an error chain. Unclassified
// errors (including context cancellation) report Fatal and ok=false.
func ClassOf(err error) (FailureClass, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Class, true
	}
	return Fatal, false
}

// StatusOf returns the HTTP status carried by the error chain, or 0.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

// IsNotFound reports whether the error is an HTTP 404, which several portal
// endpoints use to signal an empty result.
func IsNotFound(err error) bool {
	return StatusOf(err) == 404
}

// IsRegionTooLarge reports whether the error carries the portal's
// region-too-large signal.
func IsRegionTooLarge(err error) bool {
	c, ok := ClassOf(err)
	return ok && c == RegionTooLarge
}
