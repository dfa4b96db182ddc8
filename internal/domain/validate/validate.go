// Package validate contiene los validadores puros de entrada: presencia de
// campos obligatorios, formato de email y teléfono, y normalización de campos
// opcionales. Siempre reportan la primera regla violada, en el orden
// presencia -> formato; las reglas cruzadas (email duplicado) viven en los
// casos de uso porque necesitan un colaborador.
package validate

import (
	"regexp"
	"strings"

	"github.com/servigo/platform-api/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Tras eliminar espacios: al menos 10 caracteres entre dígitos y separadores.
	phoneRe    = regexp.MustCompile(`^[0-9+\-().]{10,}$`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Required verifica que el valor recortado no esté vacío y lo devuelve normalizado.
// Cadena vacía, solo espacios y campo ausente fallan idéntico.
func Required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.NewValidationError(field, domain.RuleRequired)
	}
	return v, nil
}

// Email valida presencia y formato. No toca mayúsculas/minúsculas: la
// normalización a minúsculas es decisión de cada entidad (Customer sí, Company no).
func Email(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	if !emailRe.MatchString(v) {
		return "", domain.NewValidationError(field, domain.RuleEmail)
	}
	return v, nil
}

// Phone valida presencia y formato: tras eliminar todo espacio deben quedar al
// menos 10 caracteres entre dígitos y separadores (+ - ( ) .). El valor
// devuelto conserva el formato del llamador, solo recortado.
func Phone(field, value string) (string, error) {
	v, err := Required(field, value)
	if err != nil {
		return "", err
	}
	if !phoneRe.MatchString(whitespace.ReplaceAllString(v, "")) {
		return "", domain.NewValidationError(field, domain.RulePhone)
	}
	return v, nil
}

// Optional normaliza un campo opcional: recorta y convierte vacío o solo
// espacios en nil. Nunca se persiste cadena vacía en un campo opcional.
func Optional(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

// OptionalPtr aplica Optional sobre un puntero ya existente (payloads de
// parches donde nil significa "no tocar").
func OptionalPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return Optional(*value)
}
