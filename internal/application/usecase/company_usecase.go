package usecase

import (
	"context"
	"strings"

	"github.com/servigo/platform-api/internal/application/dto"
	"github.com/servigo/platform-api/internal/domain"
	"github.com/servigo/platform-api/internal/domain/entity"
	"github.com/servigo/platform-api/internal/domain/repository"
	"github.com/servigo/platform-api/internal/domain/validate"
	"github.com/servigo/platform-api/internal/infrastructure/cache"
)

const companyEntity = "company"

// companyPage viaja por la caché como un solo valor (items + total del listado).
type companyPage struct {
	items []*entity.Company
	total int
}

// CompanyUseCase operaciones de acceso a empresas: validación, delegación al
// puerto de persistencia y sincronización de caché tras cada escritura.
type CompanyUseCase struct {
	repo  repository.CompanyRepository
	cache *cache.Store
}

// NewCompanyUseCase construye el caso de uso con el puerto y la caché compartida.
func NewCompanyUseCase(repo repository.CompanyRepository, store *cache.Store) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, cache: store}
}

// GetAll devuelve todas las empresas, cacheado bajo company:all.
func (uc *CompanyUseCase) GetAll(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := cache.Through(ctx, uc.cache, cache.AllKey(companyEntity), uc.repo.GetAll)
	if err != nil {
		return nil, err
	}
	return companiesToResponses(list), nil
}

// GetByID obtiene una empresa por ID; (nil, nil) si el id viene vacío o no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.IDKey(companyEntity, id),
		func(ctx context.Context) (*entity.Company, error) {
			return uc.repo.GetByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(c), nil
}

// GetByName busca por nombre exacto; (nil, nil) si viene vacío o no hay coincidencia.
func (uc *CompanyUseCase) GetByName(ctx context.Context, name string) (*dto.CompanyResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.LookupKey(companyEntity, "name", name),
		func(ctx context.Context) (*entity.Company, error) {
			return uc.repo.GetByName(ctx, name)
		})
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(c), nil
}

// GetByPhone busca por teléfono de contacto exacto; (nil, nil) si viene vacío o no hay.
func (uc *CompanyUseCase) GetByPhone(ctx context.Context, phone string) (*dto.CompanyResponse, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.LookupKey(companyEntity, "phone", phone),
		func(ctx context.Context) (*entity.Company, error) {
			return uc.repo.GetByPhone(ctx, phone)
		})
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(c), nil
}

// List devuelve la página filtrada y el total. Cada combinación de filtros,
// orden y página tiene su propio slot de caché.
func (uc *CompanyUseCase) List(ctx context.Context, in dto.ListCompaniesRequest) (*dto.CompanyListResponse, error) {
	q := repository.CompanyQuery{
		ServiceArea: strings.TrimSpace(in.ServiceArea),
		PricingTier: strings.TrimSpace(in.PricingTier),
		Search:      strings.TrimSpace(in.Q),
		Sort:        repository.Sort{Field: in.Sort, Desc: in.Desc},
		Page:        repository.Page{Limit: in.Limit, Offset: in.Offset},
	}
	page, err := cache.Through(ctx, uc.cache, cache.ListKey(companyEntity, q.CacheKey()),
		func(ctx context.Context) (companyPage, error) {
			items, total, err := uc.repo.List(ctx, q)
			if err != nil {
				return companyPage{}, err
			}
			return companyPage{items: items, total: total}, nil
		})
	if err != nil {
		return nil, err
	}
	return &dto.CompanyListResponse{
		Items: companiesToResponses(page.items),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: page.total},
	}, nil
}

// Create registra una empresa. El registro viaja sin id ni campos de servidor;
// data_creator se toma del actor del contexto. Tras insertar invalida el slot
// "all" y todos los slots de listado.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name, err := validate.Required("name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := validate.Required("contact_email", in.ContactEmail)
	if err != nil {
		return nil, err
	}
	phone, err := validate.Required("contact_phone", in.ContactPhone)
	if err != nil {
		return nil, err
	}
	address, err := validate.Required("address", in.Address)
	if err != nil {
		return nil, err
	}
	if email, err = validate.Email("contact_email", email); err != nil {
		return nil, err
	}
	if phone, err = validate.Phone("contact_phone", phone); err != nil {
		return nil, err
	}

	company := &entity.Company{
		Name:         name,
		Description:  validate.Optional(in.Description),
		ContactEmail: email,
		ContactPhone: phone,
		Website:      validate.Optional(in.Website),
		Address:      address,
		ServiceArea:  validate.Optional(in.ServiceArea),
		FleetDetail:  validate.Optional(in.FleetDetail),
		PricingTier:  validate.Optional(in.PricingTier),
		DataCreator:  domain.ActorFrom(ctx),
	}
	if err := uc.repo.Insert(ctx, []*entity.Company{company}); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.AllKey(companyEntity))
	uc.cache.InvalidateKind(companyEntity, cache.KindList)
	return entityToCompanyResponse(company), nil
}

// Update reemplaza el registro completo. El llamador arrastra data_creator y
// create_time de una lectura previa; data_updater/update_time los asigna el
// servidor. Invalida "all", el slot del id y todos los listados.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	id, err := validate.Required("id", id)
	if err != nil {
		return nil, err
	}
	name, err := validate.Required("name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := validate.Required("contact_email", in.ContactEmail)
	if err != nil {
		return nil, err
	}
	phone, err := validate.Required("contact_phone", in.ContactPhone)
	if err != nil {
		return nil, err
	}
	address, err := validate.Required("address", in.Address)
	if err != nil {
		return nil, err
	}
	creator, err := validate.Required("data_creator", in.DataCreator)
	if err != nil {
		return nil, err
	}
	if in.CreateTime.IsZero() {
		return nil, domain.NewValidationError("create_time", domain.RuleRequired)
	}
	if email, err = validate.Email("contact_email", email); err != nil {
		return nil, err
	}

	company := &entity.Company{
		Name:         name,
		Description:  validate.Optional(in.Description),
		ContactEmail: email,
		ContactPhone: phone,
		Website:      validate.Optional(in.Website),
		Address:      address,
		ServiceArea:  validate.Optional(in.ServiceArea),
		FleetDetail:  validate.Optional(in.FleetDetail),
		PricingTier:  validate.Optional(in.PricingTier),
		DataCreator:  creator,
		CreateTime:   in.CreateTime,
	}
	if err := uc.repo.Update(ctx, id, company); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.AllKey(companyEntity))
	uc.cache.Invalidate(cache.IDKey(companyEntity, id))
	uc.cache.InvalidateKind(companyEntity, cache.KindList)
	return entityToCompanyResponse(company), nil
}

// UpdateServiceArea cambia solo la zona de cobertura (vacío la limpia).
func (uc *CompanyUseCase) UpdateServiceArea(ctx context.Context, id, value string) (*dto.CompanyResponse, error) {
	return uc.updateField(ctx, id, func(c *entity.Company) {
		c.ServiceArea = validate.Optional(value)
	})
}

// UpdateFleetDetail cambia solo la descripción de la flota (vacío la limpia).
func (uc *CompanyUseCase) UpdateFleetDetail(ctx context.Context, id, value string) (*dto.CompanyResponse, error) {
	return uc.updateField(ctx, id, func(c *entity.Company) {
		c.FleetDetail = validate.Optional(value)
	})
}

// UpdatePricingTier cambia solo el nivel de tarifa (vacío lo limpia).
func (uc *CompanyUseCase) UpdatePricingTier(ctx context.Context, id, value string) (*dto.CompanyResponse, error) {
	return uc.updateField(ctx, id, func(c *entity.Company) {
		c.PricingTier = validate.Optional(value)
	})
}

// updateField protocolo leer-mezclar-escribir de los parches de un solo campo:
// lee el registro actual (ausente -> ErrNotFound, nunca se intenta escribir),
// copia el registro entero, aplica el cambio y escribe con precondición sobre
// update_time (la fila cambió entre lectura y escritura -> ErrConflict).
// Invalida el slot del id y "all"; los listados quedan a cargo del TTL.
func (uc *CompanyUseCase) updateField(ctx context.Context, id string, apply func(*entity.Company)) (*dto.CompanyResponse, error) {
	id, err := validate.Required("id", id)
	if err != nil {
		return nil, err
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	merged := *current
	apply(&merged)
	if err := uc.repo.UpdateIfUnmodified(ctx, id, &merged, current.UpdateTime); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.IDKey(companyEntity, id))
	uc.cache.Invalidate(cache.AllKey(companyEntity))
	return entityToCompanyResponse(&merged), nil
}

// Delete elimina la empresa, invalida "all" y los listados, y expulsa el slot
// del id para que la siguiente lectura por id no encuentre el registro borrado.
func (uc *CompanyUseCase) Delete(ctx context.Context, id string) error {
	id, err := validate.Required("id", id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(cache.AllKey(companyEntity))
	uc.cache.InvalidateKind(companyEntity, cache.KindList)
	uc.cache.Evict(cache.IDKey(companyEntity, id))
	return nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		Website:      c.Website,
		Address:      c.Address,
		ServiceArea:  c.ServiceArea,
		FleetDetail:  c.FleetDetail,
		PricingTier:  c.PricingTier,
		DataCreator:  c.DataCreator,
		DataUpdater:  c.DataUpdater,
		CreateTime:   c.CreateTime,
		UpdateTime:   c.UpdateTime,
	}
}

func companiesToResponses(list []*entity.Company) []dto.CompanyResponse {
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return items
}
