package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servigo/platform-api/internal/domain"
	"github.com/servigo/platform-api/internal/domain/validate"
)

// ──────────────────────────────────────────────────────────────────────────────
// Required
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: cadena vacía, solo espacios y valor ausente fallan con el mismo error.
func TestRequired_VacioEspaciosYAusenteFallanIgual(t *testing.T) {
	for _, valor := range []string{"", "   ", " \t\n "} {
		_, err := validate.Required("name", valor)
		require.Error(t, err, "valor %q debe fallar", valor)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
		assert.Equal(t, domain.RuleRequired, ve.Rule)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput),
			"todo ValidationError debe comportarse como ErrInvalidInput")
	}
}

// Caso 2: el valor válido se devuelve recortado.
func TestRequired_RecortaElValor(t *testing.T) {
	v, err := validate.Required("name", "  Mudanzas El Rayo  ")
	require.NoError(t, err)
	assert.Equal(t, "Mudanzas El Rayo", v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Email
// ──────────────────────────────────────────────────────────────────────────────

func TestEmail_CasosDeFormato(t *testing.T) {
	casos := []struct {
		nombre string
		valor  string
		valido bool
		regla  string
	}{
		{"dominio corto válido", "a@b.co", true, ""},
		{"email normal", "contacto@mudanzaselrayo.com", true, ""},
		{"con espacios alrededor", "  ana@servigo.co  ", true, ""},
		{"sin TLD", "a@b", false, domain.RuleEmail},
		{"sin arroba", "a.com", false, domain.RuleEmail},
		{"sin parte local", "@b.com", false, domain.RuleEmail},
		{"con espacio interno", "a b@c.co", false, domain.RuleEmail},
		{"vacío reporta requerido antes que formato", "", false, domain.RuleRequired},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			v, err := validate.Email("contact_email", c.valor)
			if c.valido {
				require.NoError(t, err)
				assert.NotContains(t, v, " ", "el valor devuelto debe venir recortado")
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, c.regla, ve.Rule)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Phone
// ──────────────────────────────────────────────────────────────────────────────

func TestPhone_CasosDeFormato(t *testing.T) {
	casos := []struct {
		nombre string
		valor  string
		valido bool
		regla  string
	}{
		{"internacional con separadores", "+1-555-123-4567", true, ""},
		{"celular colombiano con espacios", "+57 300 123 4567", true, ""},
		{"solo dígitos", "6015550123", true, ""},
		{"muy corto", "555-1234", false, domain.RulePhone},
		{"con letras", "300-ABC-4567", false, domain.RulePhone},
		{"vacío reporta requerido antes que formato", "", false, domain.RuleRequired},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := validate.Phone("contact_phone", c.valor)
			if c.valido {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, c.regla, ve.Rule)
		})
	}
}

// El valor almacenado conserva el formato del usuario; los espacios solo se
// eliminan para contar caracteres.
func TestPhone_ConservaFormatoDelLlamador(t *testing.T) {
	v, err := validate.Phone("phone_number", "  +57 300 123 4567  ")
	require.NoError(t, err)
	assert.Equal(t, "+57 300 123 4567", v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Optional
// ──────────────────────────────────────────────────────────────────────────────

func TestOptional_NormalizaVacioANil(t *testing.T) {
	assert.Nil(t, validate.Optional(""))
	assert.Nil(t, validate.Optional("   "))

	v := validate.Optional("  camiones de 10 toneladas  ")
	require.NotNil(t, v)
	assert.Equal(t, "camiones de 10 toneladas", *v)
}

func TestOptionalPtr_RespetaNilYNormalizaVacio(t *testing.T) {
	assert.Nil(t, validate.OptionalPtr(nil), "nil significa no tocar el campo")

	vacio := "   "
	assert.Nil(t, validate.OptionalPtr(&vacio), "solo espacios se convierte en ausente")

	conValor := " Carrera 7 # 45-10 "
	v := validate.OptionalPtr(&conValor)
	require.NotNil(t, v)
	assert.Equal(t, "Carrera 7 # 45-10", *v)
}
