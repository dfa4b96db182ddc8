package usecase

import (
	"context"

	"github.com/servigo/platform-api/internal/application/dto"
	"github.com/servigo/platform-api/internal/domain/repository"
	"github.com/servigo/platform-api/internal/infrastructure/cache"
)

const serviceAreaEntity = "service_area"

// ServiceAreaUseCase expone el catálogo de municipios para los selectores de la UI.
type ServiceAreaUseCase struct {
	repo  repository.ServiceAreaRepository
	cache *cache.Store
}

func NewServiceAreaUseCase(repo repository.ServiceAreaRepository, store *cache.Store) *ServiceAreaUseCase {
	return &ServiceAreaUseCase{repo: repo, cache: store}
}

// GetAll devuelve el catálogo completo, cacheado bajo service_area:all. El
// catálogo solo cambia con una migración, así que el TTL alcanza de sobra.
func (uc *ServiceAreaUseCase) GetAll(ctx context.Context) ([]dto.ServiceAreaResponse, error) {
	list, err := cache.Through(ctx, uc.cache, cache.AllKey(serviceAreaEntity), uc.repo.GetAll)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceAreaResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ServiceAreaResponse{
			Code:       a.Code,
			Name:       a.Name,
			Department: a.Department,
		})
	}
	return items, nil
}
