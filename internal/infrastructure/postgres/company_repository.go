package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/servigo/platform-api/internal/domain"
	"github.com/servigo/platform-api/internal/domain/entity"
	"github.com/servigo/platform-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, description, contact_email, contact_phone, website, address,
	service_area, fleet_detail, pricing_tier, data_creator, data_updater, create_time, update_time`

// Columnas admitidas en ORDER BY; cualquier otro campo cae en "name".
var companySortColumns = map[string]string{
	"name":         "name",
	"create_time":  "create_time",
	"update_time":  "update_time",
	"pricing_tier": "pricing_tier",
}

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ContactEmail, &c.ContactPhone, &c.Website, &c.Address,
		&c.ServiceArea, &c.FleetDetail, &c.PricingTier,
		&c.DataCreator, &c.DataUpdater, &c.CreateTime, &c.UpdateTime,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll devuelve todas las empresas ordenadas por nombre.
func (r *CompanyRepo) GetAll(ctx context.Context) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all companies: %w", err)
	}
	defer rows.Close()
	return collectCompanies(rows)
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByName devuelve la primera empresa con ese nombre exacto; (nil, nil) si no hay.
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1 ORDER BY create_time LIMIT 1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, name))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by name: %w", err)
	}
	return c, nil
}

// GetByPhone devuelve la primera empresa con ese teléfono de contacto; (nil, nil) si no hay.
func (r *CompanyRepo) GetByPhone(ctx context.Context, phone string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE contact_phone = $1 ORDER BY create_time LIMIT 1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, phone))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by phone: %w", err)
	}
	return c, nil
}

// List devuelve la página que cumple el filtro y el total sin paginar.
func (r *CompanyRepo) List(ctx context.Context, q repository.CompanyQuery) ([]*entity.Company, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if q.ServiceArea != "" {
		args = append(args, q.ServiceArea)
		where = append(where, fmt.Sprintf("service_area = $%d", len(args)))
	}
	if q.PricingTier != "" {
		args = append(args, q.PricingTier)
		where = append(where, fmt.Sprintf("pricing_tier = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR COALESCE(description, '') ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM companies"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := "SELECT " + companyColumns + " FROM companies" + cond +
		" ORDER BY " + sortClause(companySortColumns, q.Sort, "name")
	if q.Page.Limit > 0 {
		args = append(args, q.Page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, q.Page.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	list, err := collectCompanies(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Insert persiste el lote. Cada registro llega sin id ni campos de servidor;
// la base los asigna y aquí se rellenan de vuelta vía RETURNING. data_updater
// se estampa con el actor del contexto, igual que data_creator si viene vacío.
func (r *CompanyRepo) Insert(ctx context.Context, companies []*entity.Company) error {
	query := `
		INSERT INTO companies (name, description, contact_email, contact_phone, website, address,
			service_area, fleet_detail, pricing_tier, data_creator, data_updater)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, create_time, update_time`
	actor := domain.ActorFrom(ctx)
	for _, c := range companies {
		if c.DataCreator == "" {
			c.DataCreator = actor
		}
		c.DataUpdater = actor
		err := r.q.QueryRow(ctx, query,
			c.Name, c.Description, c.ContactEmail, c.ContactPhone, c.Website, c.Address,
			c.ServiceArea, c.FleetDetail, c.PricingTier, c.DataCreator, c.DataUpdater,
		).Scan(&c.ID, &c.CreateTime, &c.UpdateTime)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert company: %w", err)
		}
	}
	return nil
}

const companyUpdateSet = `name = $2, description = $3, contact_email = $4, contact_phone = $5,
	website = $6, address = $7, service_area = $8, fleet_detail = $9, pricing_tier = $10,
	data_creator = $11, create_time = $12, data_updater = $13, update_time = now()`

// Update reescribe el registro completo. data_creator/create_time se escriben
// tal como llegan (el llamador los arrastra de una lectura previa);
// data_updater/update_time los asigna el servidor y se rellenan de vuelta.
// Cero filas -> ErrNotFound.
func (r *CompanyRepo) Update(ctx context.Context, id string, c *entity.Company) error {
	query := `UPDATE companies SET ` + companyUpdateSet + ` WHERE id = $1
		RETURNING id, data_updater, update_time`
	err := r.q.QueryRow(ctx, query, id,
		c.Name, c.Description, c.ContactEmail, c.ContactPhone, c.Website, c.Address,
		c.ServiceArea, c.FleetDetail, c.PricingTier,
		c.DataCreator, c.CreateTime, domain.ActorFrom(ctx),
	).Scan(&c.ID, &c.DataUpdater, &c.UpdateTime)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// UpdateIfUnmodified reescribe solo si update_time no cambió desde la lectura.
// Si la fila existe pero fue modificada por otro escritor -> ErrConflict.
func (r *CompanyRepo) UpdateIfUnmodified(ctx context.Context, id string, c *entity.Company, seen time.Time) error {
	query := `UPDATE companies SET ` + companyUpdateSet + ` WHERE id = $1 AND update_time = $14
		RETURNING id, data_updater, update_time`
	err := r.q.QueryRow(ctx, query, id,
		c.Name, c.Description, c.ContactEmail, c.ContactPhone, c.Website, c.Address,
		c.ServiceArea, c.FleetDetail, c.PricingTier,
		c.DataCreator, c.CreateTime, domain.ActorFrom(ctx), seen,
	).Scan(&c.ID, &c.DataUpdater, &c.UpdateTime)
	if err != nil {
		if !isNoRows(err) {
			return fmt.Errorf("update company (guarded): %w", err)
		}
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// Delete elimina una empresa por ID.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func collectCompanies(rows pgx.Rows) ([]*entity.Company, error) {
	list := make([]*entity.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// sortClause arma el ORDER BY validando la columna contra la lista blanca.
func sortClause(allowed map[string]string, s repository.Sort, fallback string) string {
	col, ok := allowed[s.Field]
	if !ok {
		col = fallback
	}
	if s.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}
