package complaint

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller of the lifecycle engine.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindPrecondition
	KindAttachment
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindAttachment:
		return "attachment"
	default:
		return "unexpected"
	}
}

// Error is the only error type returned by Service. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for validation failures, keyed by JSON name.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err. Errors not produced by this package are unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func newValidationError(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func newAttachmentError(msg string) *Error {
	return &Error{Kind: KindAttachment, Message: msg}
}

func newUnexpectedError(op string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}

var (
	errAccessDenied       = &Error{Kind: KindAuthorization, Message: "Access denied"}
	errNotFound           = &Error{Kind: KindNotFound, Message: "Complaint not found"}
	errEditNotPending     = &Error{Kind: KindPrecondition, Message: "Can only edit complaints with pending status"}
	errWithdrawNotPending = &Error{Kind: KindPrecondition, Message: "Can only withdraw complaints with pending status"}
)
