package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/umalmyha/customers-crud/internal/model"
)

const pgUniqueViolationCode = "23505"

// ErrEmailTaken is returned by Save when storage rejects the record because its email is already in use
var ErrEmailTaken = errors.New("customer email is already taken")

// CustomerRepository represents storage of customers
type CustomerRepository interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, int64) (*model.Customer, error)
	ExistsByEmail(context.Context, string) (bool, error)
	ExistsByID(context.Context, int64) (bool, error)
	Save(context.Context, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, int64) error
}

const (
	pgFindAllCustomersQuery    = "SELECT id, first_name, last_name, email, phone_number, address FROM customers ORDER BY id"
	pgFindCustomerByIDQuery    = "SELECT id, first_name, last_name, email, phone_number, address FROM customers WHERE id = $1"
	pgExistsCustomerEmailQuery = "SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)"
	pgExistsCustomerIDQuery    = "SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)"
	pgInsertCustomerQuery      = `INSERT INTO customers(first_name, last_name, email, phone_number, address)
		VALUES($1, $2, $3, $4, $5) RETURNING id`
	pgUpsertCustomerQuery = `INSERT INTO customers(id, first_name, last_name, email, phone_number, address)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		email = EXCLUDED.email, phone_number = EXCLUDED.phone_number, address = EXCLUDED.address
		RETURNING id`
	pgDeleteCustomerByIDQuery = "DELETE FROM customers WHERE id = $1"
)

type postgresCustomerRepository struct {
	db *sql.DB
}

// NewPostgresCustomerRepository builds CustomerRepository on top of postgres connection pool
func NewPostgresCustomerRepository(db *sql.DB) CustomerRepository {
	return &postgresCustomerRepository{db: db}
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, pgFindAllCustomersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.Address); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer

	row := r.db.QueryRowContext(ctx, pgFindCustomerByIDQuery, id)
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.Address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, pgExistsCustomerEmailQuery, email)
}

func (r *postgresCustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, pgExistsCustomerIDQuery, id)
}

func (r *postgresCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	var row *sql.Row
	if c.IsNew() {
		row = r.db.QueryRowContext(ctx, pgInsertCustomerQuery, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address)
	} else {
		row = r.db.QueryRowContext(ctx, pgUpsertCustomerQuery, c.ID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address)
	}

	saved := *c
	if err := row.Scan(&saved.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &saved, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, pgDeleteCustomerByIDQuery, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) exists(ctx context.Context, q string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
