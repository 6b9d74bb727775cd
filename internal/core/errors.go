// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation_error"
	KindOverPayment         Kind = "over_payment"
	KindContractNotSigned   Kind = "contract_not_signed"
	KindEmptyPatch          Kind = "empty_patch"
	KindDuplicateConstraint Kind = "duplicate_constraint"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindRateLimited         Kind = "rate_limited"
	KindStoreFailure        Kind = "store_failure"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrOverPayment        = errors.New("over payment")
	ErrContractNotSigned  = errors.New("contract not signed")
	ErrEmptyPatch         = errors.New("empty patch")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrStoreFailure       = errors.New("store failure")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")
)

var kindSentinels = map[Kind]error{
	KindUnauthenticated:     ErrUnauthenticated,
	KindForbidden:           ErrForbidden,
	KindNotFound:            ErrNotFound,
	KindValidation:          ErrInvalidInput,
	KindOverPayment:         ErrOverPayment,
	KindContractNotSigned:   ErrContractNotSigned,
	KindEmptyPatch:          ErrEmptyPatch,
	KindDuplicateConstraint: ErrDuplicateKey,
	KindInvalidCredentials:  ErrInvalidCredentials,
	KindRateLimited:         ErrRateLimited,
	KindStoreFailure:        ErrStoreFailure,
}

// AppError is the failure variant every business operation returns.
// Message is user facing; Err carries the underlying cause and is never
// shown to the user.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel so callers can write
// errors.Is(err, core.ErrForbidden) regardless of the concrete message.
func (e *AppError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

func NewError(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func UnauthenticatedError(message string) *AppError {
	return NewError(KindUnauthenticated, "unauthenticated", message)
}

func ForbiddenError(message string) *AppError {
	return NewError(KindForbidden, "forbidden", message)
}

func NotFoundError(entity string) *AppError {
	return NewError(KindNotFound, entity+"_not_found", entity+" not found")
}

func ValidationError(code, message string) *AppError {
	return NewError(KindValidation, code, message)
}

func EmptyPatchError() *AppError {
	return NewError(KindEmptyPatch, "empty_patch", "nothing to update")
}

func DuplicateError(field string) *AppError {
	message := "a record with the same unique value already exists"
	if field != "" {
		message = fmt.Sprintf("%s already exists", field)
	}
	return NewError(KindDuplicateConstraint, "duplicate_"+field, message)
}

func StoreFailureError(op string, err error) *AppError {
	return &AppError{
		Kind:    KindStoreFailure,
		Code:    "store_failure",
		Message: fmt.Sprintf("%s failed, please try again", op),
		Err:     err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf classifies any error. Repository sentinels map to their kind and
// anything unclassified is a store failure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateConstraint
	default:
		return KindStoreFailure
	}
}

// Message renders the single outcome line printed for a failed command.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == KindStoreFailure {
			return appErr.Message
		}
		return err.Error()
	}

	return "unexpected error, please try again"
}
