package doctree

import (
	"errors"
	"fmt"
)

// ErrorCode classifies doctree errors.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// InvalidKey is returned when an empty key is used to address a child.
	InvalidKey
	// InvalidArgument is returned on malformed arguments, e.g. a negative depth.
	InvalidArgument
	// InvalidGraft is returned when grafting a node that still has a parent.
	InvalidGraft
	// CycleDetected is returned when a graft would make a node its own ancestor.
	CycleDetected
	// ChildNotFound is returned when child resolution exhausted the ancestry.
	ChildNotFound
	// FetchFailure wraps an error returned by a Fetcher.
	FetchFailure
	// InitializationFailed wraps the first failure hit while initializing a tree.
	InitializationFailed
	// NoDestination is returned when a navigation path has no endpoint to go to.
	NoDestination
)

// Sentinels matching each ErrorCode, usable with errors.Is.
var (
	ErrInvalidKey           = errors.New("invalid key")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidGraft         = errors.New("invalid graft, node is not a root")
	ErrCycleDetected        = errors.New("graft would create a cycle")
	ErrChildNotFound        = errors.New("child not found")
	ErrFetch                = errors.New("fetch failed")
	ErrInitializationFailed = errors.New("initialization failed")
	ErrNoDestination        = errors.New("navigation path has no destination")
)

var sentinels = map[ErrorCode]error{
	InvalidKey:           ErrInvalidKey,
	InvalidArgument:      ErrInvalidArgument,
	InvalidGraft:         ErrInvalidGraft,
	CycleDetected:        ErrCycleDetected,
	ChildNotFound:        ErrChildNotFound,
	FetchFailure:         ErrFetch,
	InitializationFailed: ErrInitializationFailed,
	NoDestination:        ErrNoDestination,
}

// Error is the doctree custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

// Unwrap exposes the wrapped error so errors.Is can match the sentinels.
func (e Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given code. cause is optional; when set it is wrapped
// together with the code's sentinel.
func NewError(code ErrorCode, cause error, userData any) Error {
	s, ok := sentinels[code]
	if !ok {
		return Error{Code: code, Err: cause, UserData: userData}
	}
	if cause == nil {
		return Error{Code: code, Err: s, UserData: userData}
	}
	return Error{Code: code, Err: fmt.Errorf("%w: %w", s, cause), UserData: userData}
}

// CodeOf returns the ErrorCode of the first doctree Error in err's chain, or Unknown.
func CodeOf(err error) ErrorCode {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}
