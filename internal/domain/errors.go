package domain

import (
	"errors"
	"fmt"
)

// ErrorKind закрытый набор категорий ошибок трекера.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// Error ошибка с категорией и сообщением для пользователя.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewTransientError помечает ошибку инфраструктуры как повторяемую.
func NewTransientError(err error) error {
	return &Error{Kind: KindTransient, Message: MsgUnavailable, Err: err}
}

// KindOf возвращает категорию первой domain.Error в цепочке.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf возвращает сообщение для пользователя.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return MsgInternal
}

func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

// Сообщения, которые видит пользователь.
const (
	MsgUsernameRequired    = "username is required"
	MsgUsernameTaken       = "username already taken"
	MsgUserIDRequired      = "user id is required"
	MsgDescriptionRequired = "description is required"
	MsgDurationRequired    = "duration is required"
	MsgDurationInvalid     = "duration must be a positive integer"
	MsgDateInvalid         = "date must be formatted as YYYY-MM-DD"
	MsgFromInvalid         = "from must be formatted as YYYY-MM-DD"
	MsgToInvalid           = "to must be formatted as YYYY-MM-DD"
	MsgUserNotFound        = "user not found"
	MsgUnavailable         = "service temporarily unavailable, please try again"
	MsgInternal            = "internal error"
)
