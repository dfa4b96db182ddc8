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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, first_name, last_name, email, phone_number, address, preferences,
	data_creator, data_updater, create_time, update_time`

var customerSortColumns = map[string]string{
	"last_name":   "last_name",
	"first_name":  "first_name",
	"email":       "email",
	"create_time": "create_time",
	"update_time": "update_time",
}

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.Address, &c.Preferences,
		&c.DataCreator, &c.DataUpdater, &c.CreateTime, &c.UpdateTime,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll devuelve todos los clientes ordenados por apellido y nombre.
func (r *CustomerRepo) GetAll(ctx context.Context) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_name, first_name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all customers: %w", err)
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// GetByID obtiene un cliente por ID; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByEmail busca por email ya normalizado a minúsculas; (nil, nil) si no hay.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// GetByPhone devuelve el primer cliente con ese teléfono; (nil, nil) si no hay.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 ORDER BY create_time LIMIT 1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, phone))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}
	return c, nil
}

// List devuelve la página que cumple el filtro y el total sin paginar.
func (r *CustomerRepo) List(ctx context.Context, q repository.CustomerQuery) ([]*entity.Customer, int, error) {
	where := make([]string, 0, 1)
	args := make([]any, 0, 3)
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM customers"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := "SELECT " + customerColumns + " FROM customers" + cond +
		" ORDER BY " + sortClause(customerSortColumns, q.Sort, "last_name")
	if q.Page.Limit > 0 {
		args = append(args, q.Page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, q.Page.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list, err := collectCustomers(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Insert persiste el lote y rellena id/create_time/update_time vía RETURNING.
// El índice único sobre email convierte duplicados en domain.ErrDuplicate.
func (r *CustomerRepo) Insert(ctx context.Context, customers []*entity.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone_number, address, preferences,
			data_creator, data_updater)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, create_time, update_time`
	actor := domain.ActorFrom(ctx)
	for _, c := range customers {
		if c.DataCreator == "" {
			c.DataCreator = actor
		}
		c.DataUpdater = actor
		err := r.q.QueryRow(ctx, query,
			c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address, c.Preferences,
			c.DataCreator, c.DataUpdater,
		).Scan(&c.ID, &c.CreateTime, &c.UpdateTime)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert customer: %w", err)
		}
	}
	return nil
}

const customerUpdateSet = `first_name = $2, last_name = $3, email = $4, phone_number = $5,
	address = $6, preferences = $7, data_creator = $8, create_time = $9,
	data_updater = $10, update_time = now()`

// Update reescribe el registro completo y rellena los campos de servidor;
// cero filas -> ErrNotFound.
func (r *CustomerRepo) Update(ctx context.Context, id string, c *entity.Customer) error {
	query := `UPDATE customers SET ` + customerUpdateSet + ` WHERE id = $1
		RETURNING id, data_updater, update_time`
	err := r.q.QueryRow(ctx, query, id,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address, c.Preferences,
		c.DataCreator, c.CreateTime, domain.ActorFrom(ctx),
	).Scan(&c.ID, &c.DataUpdater, &c.UpdateTime)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// UpdateIfUnmodified reescribe solo si update_time no cambió desde la lectura.
// Si la fila existe pero fue modificada por otro escritor -> ErrConflict.
func (r *CustomerRepo) UpdateIfUnmodified(ctx context.Context, id string, c *entity.Customer, seen time.Time) error {
	query := `UPDATE customers SET ` + customerUpdateSet + ` WHERE id = $1 AND update_time = $11
		RETURNING id, data_updater, update_time`
	err := r.q.QueryRow(ctx, query, id,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address, c.Preferences,
		c.DataCreator, c.CreateTime, domain.ActorFrom(ctx), seen,
	).Scan(&c.ID, &c.DataUpdater, &c.UpdateTime)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if !isNoRows(err) {
			return fmt.Errorf("update customer (guarded): %w", err)
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

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func collectCustomers(rows pgx.Rows) ([]*entity.Customer, error) {
	list := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
