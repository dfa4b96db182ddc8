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

const customerEntity = "customer"

// customerPage viaja por la caché como un solo valor (items + total del listado).
type customerPage struct {
	items []*entity.Customer
	total int
}

// CustomerUseCase operaciones de acceso a clientes: validación, delegación al
// puerto de persistencia y sincronización de caché tras cada escritura.
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	cache *cache.Store
}

// NewCustomerUseCase construye el caso de uso con el puerto y la caché compartida.
func NewCustomerUseCase(repo repository.CustomerRepository, store *cache.Store) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, cache: store}
}

// GetAll devuelve todos los clientes, cacheado bajo customer:all.
func (uc *CustomerUseCase) GetAll(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := cache.Through(ctx, uc.cache, cache.AllKey(customerEntity), uc.repo.GetAll)
	if err != nil {
		return nil, err
	}
	return customersToResponses(list), nil
}

// GetByID obtiene un cliente por ID; (nil, nil) si el id viene vacío o no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.IDKey(customerEntity, id),
		func(ctx context.Context) (*entity.Customer, error) {
			return uc.repo.GetByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return entityToCustomerResponse(c), nil
}

// GetByEmail busca por email (normalizado a minúsculas); (nil, nil) si viene
// vacío o no hay coincidencia.
func (uc *CustomerUseCase) GetByEmail(ctx context.Context, email string) (*dto.CustomerResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.LookupKey(customerEntity, "email", email),
		func(ctx context.Context) (*entity.Customer, error) {
			return uc.repo.GetByEmail(ctx, email)
		})
	if err != nil {
		return nil, err
	}
	return entityToCustomerResponse(c), nil
}

// GetByPhone busca por teléfono exacto; (nil, nil) si viene vacío o no hay.
func (uc *CustomerUseCase) GetByPhone(ctx context.Context, phone string) (*dto.CustomerResponse, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	c, err := cache.Through(ctx, uc.cache, cache.LookupKey(customerEntity, "phone", phone),
		func(ctx context.Context) (*entity.Customer, error) {
			return uc.repo.GetByPhone(ctx, phone)
		})
	if err != nil {
		return nil, err
	}
	return entityToCustomerResponse(c), nil
}

// List devuelve la página filtrada y el total. Cada combinación de filtro,
// orden y página tiene su propio slot de caché.
func (uc *CustomerUseCase) List(ctx context.Context, in dto.ListCustomersRequest) (*dto.CustomerListResponse, error) {
	q := repository.CustomerQuery{
		Search: strings.TrimSpace(in.Q),
		Sort:   repository.Sort{Field: in.Sort, Desc: in.Desc},
		Page:   repository.Page{Limit: in.Limit, Offset: in.Offset},
	}
	page, err := cache.Through(ctx, uc.cache, cache.ListKey(customerEntity, q.CacheKey()),
		func(ctx context.Context) (customerPage, error) {
			items, total, err := uc.repo.List(ctx, q)
			if err != nil {
				return customerPage{}, err
			}
			return customerPage{items: items, total: total}, nil
		})
	if err != nil {
		return nil, err
	}
	return &dto.CustomerListResponse{
		Items: customersToResponses(page.items),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: page.total},
	}, nil
}

// Create registra un cliente. El email se normaliza a minúsculas y no puede
// repetirse: la verificación previa es al mejor esfuerzo (un fallo de consulta
// cuenta como "sin duplicado") y el índice único respalda la regla al insertar.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	first, err := validate.Required("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := validate.Required("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	email, err := validate.Required("email", in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := validate.Required("phone_number", in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if email, err = validate.Email("email", email); err != nil {
		return nil, err
	}
	if phone, err = validate.Phone("phone_number", phone); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	if existing, err := uc.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrDuplicate
	}

	customer := &entity.Customer{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		Address:     validate.Optional(in.Address),
		Preferences: validate.Optional(in.Preferences),
		DataCreator: domain.ActorFrom(ctx),
	}
	if err := uc.repo.Insert(ctx, []*entity.Customer{customer}); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.AllKey(customerEntity))
	uc.cache.InvalidateKind(customerEntity, cache.KindList)
	return entityToCustomerResponse(customer), nil
}

// Update reemplaza el registro completo. El llamador arrastra data_creator y
// create_time de una lectura previa; data_updater/update_time los asigna el
// servidor. Invalida "all", el slot del id y todos los listados.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	id, err := validate.Required("id", id)
	if err != nil {
		return nil, err
	}
	first, err := validate.Required("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := validate.Required("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	email, err := validate.Required("email", in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := validate.Required("phone_number", in.PhoneNumber)
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
	if email, err = validate.Email("email", email); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	customer := &entity.Customer{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		Address:     validate.Optional(in.Address),
		Preferences: validate.Optional(in.Preferences),
		DataCreator: creator,
		CreateTime:  in.CreateTime,
	}
	if err := uc.repo.Update(ctx, id, customer); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.AllKey(customerEntity))
	uc.cache.Invalidate(cache.IDKey(customerEntity, id))
	uc.cache.InvalidateKind(customerEntity, cache.KindList)
	return entityToCustomerResponse(customer), nil
}

// UpdateProfile actualización parcial del perfil: solo los campos presentes en
// el payload reemplazan a los actuales, y la mezcla resultante se valida antes
// de escribir (nombre y apellido presentes, teléfono con formato válido).
func (uc *CustomerUseCase) UpdateProfile(ctx context.Context, id string, in dto.UpdateCustomerProfileRequest) (*dto.CustomerResponse, error) {
	return uc.updateGuarded(ctx, id, func(c *entity.Customer) error {
		if in.FirstName != nil {
			c.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			c.LastName = *in.LastName
		}
		if in.PhoneNumber != nil {
			c.PhoneNumber = *in.PhoneNumber
		}
		if in.Address != nil {
			c.Address = validate.OptionalPtr(in.Address)
		}
		var err error
		if c.FirstName, err = validate.Required("first_name", c.FirstName); err != nil {
			return err
		}
		if c.LastName, err = validate.Required("last_name", c.LastName); err != nil {
			return err
		}
		if c.PhoneNumber, err = validate.Phone("phone_number", c.PhoneNumber); err != nil {
			return err
		}
		return nil
	})
}

// UpdatePreferences reemplaza solo las preferencias (vacío las limpia).
func (uc *CustomerUseCase) UpdatePreferences(ctx context.Context, id, value string) (*dto.CustomerResponse, error) {
	return uc.updateGuarded(ctx, id, func(c *entity.Customer) error {
		c.Preferences = validate.Optional(value)
		return nil
	})
}

// updateGuarded protocolo leer-mezclar-escribir de los parches: lee el registro
// actual (ausente -> ErrNotFound, nunca se intenta escribir), copia el registro
// entero, aplica la mezcla y escribe con precondición sobre update_time (la
// fila cambió entre lectura y escritura -> ErrConflict). Invalida el slot del
// id y "all"; los listados quedan a cargo del TTL.
func (uc *CustomerUseCase) updateGuarded(ctx context.Context, id string, apply func(*entity.Customer) error) (*dto.CustomerResponse, error) {
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
	if err := apply(&merged); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateIfUnmodified(ctx, id, &merged, current.UpdateTime); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(cache.IDKey(customerEntity, id))
	uc.cache.Invalidate(cache.AllKey(customerEntity))
	return entityToCustomerResponse(&merged), nil
}

// Delete elimina el cliente, invalida "all" y los listados, y expulsa el slot
// del id para que la siguiente lectura por id no encuentre el registro borrado.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	id, err := validate.Required("id", id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(cache.AllKey(customerEntity))
	uc.cache.InvalidateKind(customerEntity, cache.KindList)
	uc.cache.Evict(cache.IDKey(customerEntity, id))
	return nil
}

// Authenticate identifica a un cliente por email sin pasar por la caché: la
// respuesta no puede viajar sobre un slot obsoleto. No verifica credenciales.
func (uc *CustomerUseCase) Authenticate(ctx context.Context, email string) (*dto.CustomerResponse, error) {
	email, err := validate.Email("email", email)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return entityToCustomerResponse(c), nil
}

func entityToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		Preferences: c.Preferences,
		DataCreator: c.DataCreator,
		DataUpdater: c.DataUpdater,
		CreateTime:  c.CreateTime,
		UpdateTime:  c.UpdateTime,
	}
}

func customersToResponses(list []*entity.Customer) []dto.CustomerResponse {
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCustomerResponse(c))
	}
	return items
}
