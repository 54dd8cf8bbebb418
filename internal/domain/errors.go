package domain

import "errors"

type ErrorKind string

const (
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindBadRequest ErrorKind = "bad_request"
	ErrorKindConflict   ErrorKind = "conflict"
	ErrorKindForbidden  ErrorKind = "forbidden"
)

// Error is a validation or authorization outcome that is returned to the caller as is.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func NotFound(detail string) error {
	return &Error{Kind: ErrorKindNotFound, Detail: detail}
}

func BadRequest(detail string) error {
	return &Error{Kind: ErrorKindBadRequest, Detail: detail}
}

func Conflict(detail string) error {
	return &Error{Kind: ErrorKindConflict, Detail: detail}
}

func Forbidden(detail string) error {
	return &Error{Kind: ErrorKindForbidden, Detail: detail}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var dErr *Error
	if !errors.As(err, &dErr) {
		return "", false
	}
	return dErr.Kind, true
}

func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
