package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servigo/platform-api/internal/application/auth"
	"github.com/servigo/platform-api/internal/application/dto"
	"github.com/servigo/platform-api/internal/application/usecase"
	"github.com/servigo/platform-api/internal/domain"
	"github.com/servigo/platform-api/internal/domain/entity"
	"github.com/servigo/platform-api/internal/domain/repository"
	"github.com/servigo/platform-api/internal/infrastructure/cache"
	apphttp "github.com/servigo/platform-api/internal/interfaces/http"
	"github.com/servigo/platform-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del router completo sobre puertos en memoria: orden de las rutas fijas
// frente a :id, protección de las escrituras, RBAC del borrado, mapeo de
// errores del dominio a códigos HTTP y el viaje del actor del token hasta los
// sellos de auditoría.
// ──────────────────────────────────────────────────────────────────────────────

// ── Lecturas públicas ─────────────────────────────────────────────────────────

// Caso 1: /all es una ruta fija, no un :id llamado "all".
func TestRouter_RutaFijaAllNoChocaConID(t *testing.T) {
	app, companies, _ := newTestAPI(t)
	companies.seed(&entity.Company{Name: "Mudanzas Andinas"})

	resp := doJSON(t, app, http.MethodGet, "/api/companies/all", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeJSON[[]dto.CompanyResponse](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "Mudanzas Andinas", out[0].Name)
}

func TestRouter_GetByID(t *testing.T) {
	app, companies, _ := newTestAPI(t)
	c := companies.seed(&entity.Company{Name: "Mudanzas Andinas"})

	resp := doJSON(t, app, http.MethodGet, "/api/companies/"+c.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.CompanyResponse](t, resp)
	assert.Equal(t, "Mudanzas Andinas", out.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/companies/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestRouter_LookupExigeUnaClave(t *testing.T) {
	app, companies, _ := newTestAPI(t)
	companies.seed(&entity.Company{Name: "Mudanzas Andinas", ContactPhone: "+57 601 555 0101"})

	// Sin clave: 400.
	resp := doJSON(t, app, http.MethodGet, "/api/companies/lookup", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_KEY", errBody.Code)

	// Por nombre exacto: 200.
	resp = doJSON(t, app, http.MethodGet, "/api/companies/lookup?name=Mudanzas+Andinas", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.CompanyResponse](t, resp)
	assert.Equal(t, "+57 601 555 0101", out.ContactPhone)

	// Sin coincidencia: 404.
	resp = doJSON(t, app, http.MethodGet, "/api/companies/lookup?phone=desconocido", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_ListAplicaPaginaPorDefecto(t *testing.T) {
	app, companies, _ := newTestAPI(t)
	companies.seed(&entity.Company{Name: "Andinas"})
	companies.seed(&entity.Company{Name: "Caribe"})

	resp := doJSON(t, app, http.MethodGet, "/api/companies", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.CompanyListResponse](t, resp)
	assert.Equal(t, 20, out.Page.Limit, "sin limit explícito rige el default del borde")
	assert.Equal(t, 2, out.Page.Total)
	assert.Len(t, out.Items, 2)
}

// ── Escrituras protegidas ─────────────────────────────────────────────────────

func TestRouter_CrearSinTokenRechazado(t *testing.T) {
	app, companies, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/companies", "", fiber.Map{"name": "X"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_TOKEN", errBody.Code)
	assert.Empty(t, companies.all(), "sin token la petición no llega al caso de uso")
}

// Caso: el email del token termina estampado como data_creator.
func TestRouter_CrearEstampaActorDelToken(t *testing.T) {
	app, _, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/companies", tokenForRole(t, "operador"), fiber.Map{
		"name":          "Mudanzas Andinas",
		"contact_email": "ops@andinas.co",
		"contact_phone": "+57 601 555 0101",
		"address":       "Cra 7 # 45-10, Bogotá",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeJSON[dto.CompanyResponse](t, resp)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, testEmail, out.DataCreator, "data_creator sale del email del token")
	assert.Equal(t, testEmail, out.DataUpdater)
}

func TestRouter_CrearInvalidoDevuelve400(t *testing.T) {
	app, _, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/companies", tokenForRole(t, "operador"), fiber.Map{
		"name": "Sin Contacto",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Message, "contact_email")
}

func TestRouter_DeleteSoloAdmin(t *testing.T) {
	app, companies, _ := newTestAPI(t)
	c := companies.seed(&entity.Company{Name: "Mudanzas Andinas"})

	// operador: 403.
	resp := doJSON(t, app, http.MethodDelete, "/api/companies/"+c.ID, tokenForRole(t, "operador"), nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// admin: 204 y el registro desaparece.
	resp = doJSON(t, app, http.MethodDelete, "/api/companies/"+c.ID, tokenForRole(t, "admin"), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/companies/"+c.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_PatchPerfilConservaLoNoEnviado(t *testing.T) {
	app, _, customers := newTestAPI(t)
	c := customers.seed(&entity.Customer{
		FirstName:   "Ana",
		LastName:    "Pérez",
		Email:       "ana@mail.co",
		PhoneNumber: "+57 300 111 2233",
	})

	resp := doJSON(t, app, http.MethodPatch, "/api/customers/"+c.ID+"/profile",
		tokenForRole(t, "operador"), fiber.Map{"last_name": "García"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeJSON[dto.CustomerResponse](t, resp)
	assert.Equal(t, "Ana", out.FirstName, "los campos ausentes del payload no cambian")
	assert.Equal(t, "García", out.LastName)
	assert.Equal(t, testEmail, out.DataUpdater, "el parche estampa el actor del token")
}

// ── Identificación de clientes ────────────────────────────────────────────────

func TestRouter_AuthenticateCliente(t *testing.T) {
	app, _, customers := newTestAPI(t)
	customers.seed(&entity.Customer{FirstName: "Ana", LastName: "Pérez", Email: "ana@mail.co", PhoneNumber: "+57 300 111 2233"})

	resp := doJSON(t, app, http.MethodPost, "/api/customers/authenticate", "", fiber.Map{"email": "Ana@Mail.co"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.CustomerResponse](t, resp)
	assert.Equal(t, "ana@mail.co", out.Email)

	resp = doJSON(t, app, http.MethodPost, "/api/customers/authenticate", "", fiber.Map{"email": "nadie@mail.co"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/customers/authenticate", "", fiber.Map{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// ── Registro y login del staff ────────────────────────────────────────────────

func TestRouter_RegisterYLogin(t *testing.T) {
	app, _, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":     "Nueva@ServiGo.co",
		"password":  "secreta-123",
		"full_name": "Nueva Operadora",
		"role":      "operador",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeJSON[dto.UserResponse](t, resp)
	assert.Equal(t, "nueva@servigo.co", user.Email, "el email del staff también se normaliza")
	assert.Equal(t, "operador", user.Role)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nueva@servigo.co",
		"password": "secreta-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeJSON[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "nueva@servigo.co", login.User.Email)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nueva@servigo.co",
		"password": "equivocada",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)
}

func TestRouter_RegisterDuplicadoDevuelve409(t *testing.T) {
	app, _, _ := newTestAPI(t)
	body := fiber.Map{
		"email":     "repetida@servigo.co",
		"password":  "secreta-123",
		"full_name": "Primera",
		"role":      "admin",
	}

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decodeJSON[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", errBody.Code)
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func TestRouter_ServiceAreasPublico(t *testing.T) {
	app, _, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/service-areas", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[[]dto.ServiceAreaResponse](t, resp)
	require.Len(t, out, 2)
	assert.Equal(t, "05001", out[0].Code)
	assert.Equal(t, "Antioquia", out[0].Department)
}

// ── armado de la app ──────────────────────────────────────────────────────────

func newTestAPI(t *testing.T) (*fiber.App, *memCompanyRepo, *memCustomerRepo) {
	t.Helper()
	store := cache.NewStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	companies := newMemCompanyRepo()
	customers := newMemCustomerRepo()
	users := &memUserRepo{rows: make(map[string]*entity.User)}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:     usecase.NewCompanyUseCase(companies, store),
		CustomerUC:    usecase.NewCustomerUseCase(customers, store),
		ServiceAreaUC: usecase.NewServiceAreaUseCase(&memAreaRepo{}, store),
		AuthUC: auth.NewAuthUseCase(users, auth.JWTConfig{
			Secret:     testJWTSecret,
			ExpMinutes: testExpMin,
			Issuer:     testIssuer,
		}),
		JWTSecret: testJWTSecret,
		Log:       logger.Nop(),
	})
	return app, companies, customers
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ── puertos en memoria ────────────────────────────────────────────────────────

type memCompanyRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Company
	seq  int
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{rows: make(map[string]*entity.Company)}
}

func (m *memCompanyRepo) seed(c *entity.Company) *entity.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *c
	cp.ID = fmt.Sprintf("company-%d", m.seq)
	if cp.DataCreator == "" {
		cp.DataCreator = "seed@servigo.co"
	}
	now := time.Now().Add(-time.Hour)
	cp.CreateTime, cp.UpdateTime = now, now
	m.rows[cp.ID] = &cp
	out := cp
	return &out
}

func (m *memCompanyRepo) all() []*entity.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Company, 0, len(m.rows))
	for _, c := range m.rows {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

func (m *memCompanyRepo) GetAll(ctx context.Context) ([]*entity.Company, error) {
	return m.all(), nil
}

func (m *memCompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCompanyRepo) GetByPhone(ctx context.Context, phone string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.ContactPhone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCompanyRepo) List(ctx context.Context, q repository.CompanyQuery) ([]*entity.Company, int, error) {
	items := m.all()
	return items, len(items), nil
}

func (m *memCompanyRepo) Insert(ctx context.Context, companies []*entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor := domain.ActorFrom(ctx)
	for _, c := range companies {
		m.seq++
		c.ID = fmt.Sprintf("company-%d", m.seq)
		if c.DataCreator == "" {
			c.DataCreator = actor
		}
		c.DataUpdater = actor
		now := time.Now()
		c.CreateTime, c.UpdateTime = now, now
		cp := *c
		m.rows[c.ID] = &cp
	}
	return nil
}

func (m *memCompanyRepo) Update(ctx context.Context, id string, company *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	company.ID = id
	company.DataUpdater = domain.ActorFrom(ctx)
	company.UpdateTime = time.Now()
	cp := *company
	m.rows[id] = &cp
	return nil
}

func (m *memCompanyRepo) UpdateIfUnmodified(ctx context.Context, id string, company *entity.Company, seen time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.UpdateTime.Equal(seen) {
		return domain.ErrConflict
	}
	company.ID = id
	company.DataUpdater = domain.ActorFrom(ctx)
	company.UpdateTime = time.Now()
	cp := *company
	m.rows[id] = &cp
	return nil
}

func (m *memCompanyRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memCustomerRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Customer
	seq  int
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{rows: make(map[string]*entity.Customer)}
}

func (m *memCustomerRepo) seed(c *entity.Customer) *entity.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *c
	cp.ID = fmt.Sprintf("customer-%d", m.seq)
	if cp.DataCreator == "" {
		cp.DataCreator = "seed@servigo.co"
	}
	now := time.Now().Add(-time.Hour)
	cp.CreateTime, cp.UpdateTime = now, now
	m.rows[cp.ID] = &cp
	out := cp
	return &out
}

func (m *memCustomerRepo) GetAll(ctx context.Context) ([]*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Customer, 0, len(m.rows))
	for _, c := range m.rows {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memCustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.PhoneNumber == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCustomerRepo) List(ctx context.Context, q repository.CustomerQuery) ([]*entity.Customer, int, error) {
	items, _ := m.GetAll(ctx)
	return items, len(items), nil
}

func (m *memCustomerRepo) Insert(ctx context.Context, customers []*entity.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor := domain.ActorFrom(ctx)
	for _, c := range customers {
		m.seq++
		c.ID = fmt.Sprintf("customer-%d", m.seq)
		if c.DataCreator == "" {
			c.DataCreator = actor
		}
		c.DataUpdater = actor
		now := time.Now()
		c.CreateTime, c.UpdateTime = now, now
		cp := *c
		m.rows[c.ID] = &cp
	}
	return nil
}

func (m *memCustomerRepo) Update(ctx context.Context, id string, customer *entity.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	customer.ID = id
	customer.DataUpdater = domain.ActorFrom(ctx)
	customer.UpdateTime = time.Now()
	cp := *customer
	m.rows[id] = &cp
	return nil
}

func (m *memCustomerRepo) UpdateIfUnmodified(ctx context.Context, id string, customer *entity.Customer, seen time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.UpdateTime.Equal(seen) {
		return domain.ErrConflict
	}
	customer.ID = id
	customer.DataUpdater = domain.ActorFrom(ctx)
	customer.UpdateTime = time.Now()
	cp := *customer
	m.rows[id] = &cp
	return nil
}

func (m *memCustomerRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memUserRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.User
}

func (m *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	user.CreateTime = time.Now()
	cp := *user
	m.rows[user.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type memAreaRepo struct{}

func (memAreaRepo) GetAll(ctx context.Context) ([]*entity.ServiceArea, error) {
	return []*entity.ServiceArea{
		{Code: "05001", Name: "Medellín", Department: "Antioquia"},
		{Code: "11001", Name: "Bogotá, D.C.", Department: "Bogotá, D.C."},
	}, nil
}
