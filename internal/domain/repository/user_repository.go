package repository

import (
	"context"

	"github.com/servigo/platform-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para el staff de la plataforma.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve (nil, nil) si no existe usuario con ese email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
