package service

import (
	"errors"
	"fmt"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStorage           = errors.New("storage fault")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// ForbiddenError lleva el valor real (aprobación o rol) que hizo fallar el chequeo.
type ForbiddenError struct {
	Reason string
	Actual string
}

func (e *ForbiddenError) Error() string {
	if e.Actual == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (current: %s)", e.Reason, e.Actual)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func forbidden(reason, actual string) error {
	return &ForbiddenError{Reason: reason, Actual: actual}
}

// storageFault marca un error del repositorio como falla de almacenamiento
// sin perder la causa original.
func storageFault(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
