package errs

import "fmt"

// TransportError reports a failed network fetch.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a malformed or unreadable JSON document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PathSafetyError reports a path that escapes the root it must stay inside.
type PathSafetyError struct {
	Root string
	Path string
}

func (e *PathSafetyError) Error() string {
	return fmt.Sprintf("unsafe path %q resolves outside %q", e.Path, e.Root)
}

// PersistenceError reports a failed durable write.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
