package graph

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"habittracker/internal/service"
	"habittracker/internal/validation"
	"habittracker/pkg/logger"
)

// publicError is returned to the client verbatim.
type publicError struct {
	msg string
}

func (e *publicError) Error() string { return e.msg }

func newPublicError(format string, args ...interface{}) error {
	return &publicError{msg: fmt.Sprintf(format, args...)}
}

var (
	errNotLoggedIn        = &publicError{msg: "User is not logged in"}
	errInvalidCredentials = &publicError{msg: "Email or Password is invalid"}
	errIncorrectPassword  = &publicError{msg: "Password is incorrect"}
	errTooManyAttempts    = &publicError{msg: "Too many login attempts, try again later"}
	errAccountTaken       = &publicError{msg: "Email or username is already taken"}
	errInternal           = &publicError{msg: "internal server error"}
)

func errHabitNotFound(id int) error {
	return newPublicError("Habit with the ID %d does not exist", id)
}

// present 把内部错误转换成客户端可见的错误，未知错误只记录日志
func (r *Resolver) present(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		pub      *publicError
		invalid  *validation.Error
		notFound *service.NotFoundError
	)
	switch {
	case errors.As(err, &pub), errors.As(err, &invalid):
		return err
	case errors.Is(err, service.ErrInvalidCredentials):
		return errInvalidCredentials
	case errors.Is(err, service.ErrIncorrectPassword):
		return errIncorrectPassword
	case errors.Is(err, service.ErrTooManyAttempts):
		return errTooManyAttempts
	case errors.Is(err, service.ErrAccountTaken):
		return errAccountTaken
	case errors.As(err, &notFound):
		return &publicError{msg: notFound.Error()}
	}

	logger.WithTrace(ctx, r.logger).Error("Resolver failed", zap.String("operation", op), zap.Error(err))
	return errInternal
}
