package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Reglas de validación reportadas por ValidationError.
const (
	RuleRequired   = "requerido"
	RuleEmail      = "formato de email inválido"
	RulePhone      = "formato de teléfono inválido"
	RuleDuplicated = "ya existe un registro con este valor"
)

// ValidationError identifica la primera regla violada al validar una entrada.
// Field usa el nombre snake_case con el que el campo viaja en la API.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// Is hace que errors.Is(err, ErrInvalidInput) funcione para cualquier ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError construye el error de validación para un campo y una regla.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}
