package virtuallist

import "fmt"

// Kind classifies the errors returned by the list API.
type Kind int

const (
	// KindOutOfBounds indicates an item or chunk index outside the valid range.
	KindOutOfBounds Kind = iota
	// KindInvalidSize indicates a negative, NaN, or non-finite item size.
	KindInvalidSize
	// KindInvalidArgument indicates a parameter that violates a precondition.
	KindInvalidArgument
	// KindInternalInvariant indicates a failed post-condition check; a bug.
	KindInternalInvariant
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindInvalidSize:
		return "InvalidSize"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInternalInvariant:
		return "InternalInvariant"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error value returned by all list operations. It carries a
// discriminated kind plus a human-readable message so host bindings can map
// it onto their native error representation.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is reports whether target matches this error's kind. It makes
// errors.Is(err, ErrOutOfBounds) work on wrapped errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Sentinel values for errors.Is checks. Never returned directly; operations
// return an *Error carrying a message of the same kind.
var (
	ErrOutOfBounds       = &Error{Kind: KindOutOfBounds}
	ErrInvalidSize       = &Error{Kind: KindInvalidSize}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInternalInvariant = &Error{Kind: KindInternalInvariant}
)

func outOfBounds(format string, args ...interface{}) error {
	return &Error{Kind: KindOutOfBounds, Message: fmt.Sprintf(format, args...)}
}

func invalidSize(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidSize, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func internalInvariant(format string, args ...interface{}) error {
	return &Error{Kind: KindInternalInvariant, Message: fmt.Sprintf(format, args...)}
}
