package storage

import "fmt"

// ParseError reports a persisted resource that exists but cannot be parsed.
// Callers must surface it rather than treat the resource as empty.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed write to a persisted resource. The in-memory
// state the write was meant to persist is still valid.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
