package persist

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies persistence failures.
type Kind int

const (
	// KindNotFound means a requested record or file does not exist.
	KindNotFound Kind = iota + 1
	// KindCorrupt means persisted data could not be decoded or failed validation.
	KindCorrupt
	// KindIO means the filesystem refused a read, write or remove.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindCorrupt:
		return "corrupt"
	case KindIO:
		return "i/o failure"
	}
	return "unknown"
}

// Sentinels for errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("corrupt data")
	ErrIO       = errors.New("i/o failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindCorrupt:
		return ErrCorrupt
	case KindIO:
		return ErrIO
	}
	return nil
}

// Error is the typed error returned by the stores.
type Error struct {
	Kind Kind
	Op   string // load, save, migrate, remove, ...
	Path string // file involved, if any
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// NotFound builds a KindNotFound error.
func NotFound(op, path string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Path: path, Err: err}
}

// Corrupt builds a KindCorrupt error.
func Corrupt(op, path string, err error) *Error {
	return &Error{Kind: KindCorrupt, Op: op, Path: path, Err: err}
}

// IO builds a KindIO error.
func IO(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// ValidationError represents a schema violation with its location.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
