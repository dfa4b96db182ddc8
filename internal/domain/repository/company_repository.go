package repository

import (
	"context"
	"time"

	"github.com/servigo/platform-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
//
// Las búsquedas por clave devuelven (nil, nil) cuando no hay registro: en las
// lecturas directas la ausencia no es un error.
type CompanyRepository interface {
	GetAll(ctx context.Context) ([]*entity.Company, error)
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Company, error)
	// List devuelve la página y el total de registros que cumplen el filtro.
	List(ctx context.Context, q CompanyQuery) ([]*entity.Company, int, error)
	// Insert persiste el lote y rellena en cada registro los campos asignados
	// por el servidor (id, data_updater, create_time, update_time).
	Insert(ctx context.Context, companies []*entity.Company) error
	// Update reescribe el registro completo. Cero filas afectadas -> ErrNotFound.
	Update(ctx context.Context, id string, company *entity.Company) error
	// UpdateIfUnmodified reescribe solo si update_time no cambió desde la
	// lectura previa; si el registro existe pero cambió -> ErrConflict.
	UpdateIfUnmodified(ctx context.Context, id string, company *entity.Company, seen time.Time) error
	Delete(ctx context.Context, id string) error
}
