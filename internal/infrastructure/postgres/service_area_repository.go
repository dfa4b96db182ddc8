package postgres

import (
	"context"
	"fmt"

	"github.com/servigo/platform-api/internal/domain/entity"
	"github.com/servigo/platform-api/internal/domain/repository"
)

var _ repository.ServiceAreaRepository = (*ServiceAreaRepo)(nil)

// ServiceAreaRepo acceso de solo lectura al catálogo de municipios DANE.
type ServiceAreaRepo struct {
	q Querier
}

func NewServiceAreaRepository(q Querier) *ServiceAreaRepo {
	return &ServiceAreaRepo{q: q}
}

// GetAll devuelve el catálogo completo ordenado por departamento y nombre.
func (r *ServiceAreaRepo) GetAll(ctx context.Context) ([]*entity.ServiceArea, error) {
	query := `SELECT code, name, department FROM service_areas ORDER BY department, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get service areas: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.ServiceArea, 0)
	for rows.Next() {
		var a entity.ServiceArea
		if err := rows.Scan(&a.Code, &a.Name, &a.Department); err != nil {
			return nil, fmt.Errorf("scan service area: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
