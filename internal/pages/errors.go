package pages

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError reports that an expected element or condition never
// materialized within the configured wait. It is fatal to the current
// operation and surfaces as a test failure.
type TimeoutError struct {
	Op      string
	Locator Locator
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s on %s timed out after %s: %v", e.Op, e.Locator, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// isDriverTimeout reports whether the driver error is a wait timeout, as
// opposed to a protocol or navigation failure.
func isDriverTimeout(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Timeout")
}

// wrapTimeout converts driver wait timeouts into *TimeoutError and passes
// other failures through wrapped.
func wrapTimeout(op string, loc Locator, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if isDriverTimeout(err) {
		return &TimeoutError{Op: op, Locator: loc, Timeout: timeout, Err: err}
	}
	return fmt.Errorf("%s on %s failed: %w", op, loc, err)
}
