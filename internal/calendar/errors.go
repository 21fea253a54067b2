package calendar

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. An *Error matches the sentinel
// of its kind under errors.Is.
var (
	ErrUnsupportedYear   = errors.New("unsupported year")
	ErrInvalidLunarIndex = errors.New("invalid lunar index")
	ErrNoAnchorFound     = errors.New("no anchor found")
	ErrNoOfficerAnchor   = errors.New("no officer anchor")
	ErrInvalidInput      = errors.New("invalid input")
)

// ErrorKind is a coarse-grained categorization for calendar errors.
type ErrorKind string

const (
	KindUnsupportedYear   ErrorKind = "unsupported_year"
	KindInvalidLunarIndex ErrorKind = "invalid_lunar_index"
	KindNoAnchorFound     ErrorKind = "no_anchor_found"
	KindNoOfficerAnchor   ErrorKind = "no_officer_anchor"
	KindInvalidInput      ErrorKind = "invalid_input"
)

var kindSentinels = map[ErrorKind]error{
	KindUnsupportedYear:   ErrUnsupportedYear,
	KindInvalidLunarIndex: ErrInvalidLunarIndex,
	KindNoAnchorFound:     ErrNoAnchorFound,
	KindNoOfficerAnchor:   ErrNoOfficerAnchor,
	KindInvalidInput:      ErrInvalidInput,
}

// Error wraps a failed computation with the operation that failed and its kind.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// NewError builds an *Error whose detail message is formatted from format and args.
func NewError(op string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// IsKind helps callers classify errors without knowing which engine produced them.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
