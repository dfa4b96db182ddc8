package repository

import (
	"context"
	"time"

	"github.com/servigo/platform-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Mismo contrato de ausencia que CompanyRepository: (nil, nil) en lecturas
// directas sin resultado.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]*entity.Customer, error)
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	List(ctx context.Context, q CustomerQuery) ([]*entity.Customer, int, error)
	Insert(ctx context.Context, customers []*entity.Customer) error
	Update(ctx context.Context, id string, customer *entity.Customer) error
	UpdateIfUnmodified(ctx context.Context, id string, customer *entity.Customer, seen time.Time) error
	Delete(ctx context.Context, id string) error
}
