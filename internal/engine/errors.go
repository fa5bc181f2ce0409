package engine

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("engine is closed")

// UsageError rejects a command before any state is touched.
type UsageError struct {
	Arg    string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Arg, e.Value, e.Reason)
}

// IsUsage reports whether err is a *UsageError.
func IsUsage(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}
