package repository

import (
	"context"

	"github.com/servigo/platform-api/internal/domain/entity"
)

// ServiceAreaRepository expone el catálogo de zonas de cobertura (solo lectura).
type ServiceAreaRepository interface {
	GetAll(ctx context.Context) ([]*entity.ServiceArea, error)
}
