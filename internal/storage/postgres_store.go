package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/samvad-hq/samvad-customers/internal/domain"
)

const (
	pqUniqueViolation = "23505"

	createCustomerTable = `
CREATE TABLE IF NOT EXISTS customer (
    id     SERIAL PRIMARY KEY,
    name   TEXT NOT NULL,
    email  TEXT NOT NULL,
    age    INT NOT NULL,
    gender TEXT NOT NULL
)`
	createEmailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS customer_email_lower_idx ON customer (lower(email))`

	selectCustomerColumns = `SELECT id, name, email, age, gender FROM customer`
)

// postgresStore implements Store on top of database/sql and lib/pq.
type postgresStore struct {
	db *sql.DB
}

func openPostgres(ctx context.Context, dsn string, opts Options) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, opts.OpenTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range []string{createCustomerTable, createEmailIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create customer schema: %w", err)
		}
	}
	return &postgresStore{db: db}, nil
}

func (p *postgresStore) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *postgresStore) SelectAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := p.db.QueryContext(ctx, selectCustomerColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (p *postgresStore) SelectByID(ctx context.Context, id int) (domain.Customer, bool, error) {
	row := p.db.QueryRowContext(ctx, selectCustomerColumns+` WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, false, nil
	}
	if err != nil {
		return domain.Customer{}, false, err
	}
	return c, true, nil
}

func (p *postgresStore) Insert(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO customer (name, email, age, gender) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Email, c.Age, string(c.Gender),
	).Scan(&c.ID)
	if err != nil {
		return domain.Customer{}, mapPQError(err)
	}
	return c, nil
}

func (p *postgresStore) ExistsWithEmail(ctx context.Context, email string) (bool, error) {
	return p.exists(ctx, `SELECT count(*) FROM customer WHERE lower(email) = $1`, normalizeEmail(email))
}

func (p *postgresStore) ExistsWithID(ctx context.Context, id int) (bool, error) {
	return p.exists(ctx, `SELECT count(*) FROM customer WHERE id = $1`, id)
}

func (p *postgresStore) DeleteByID(ctx context.Context, id int) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM customer WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

func (p *postgresStore) Update(ctx context.Context, c domain.Customer) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE customer SET name = $1, email = $2, age = $3, gender = $4 WHERE id = $5`,
		c.Name, c.Email, c.Age, string(c.Gender), c.ID,
	)
	return mapPQError(err)
}

func (p *postgresStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("count customers: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		c      domain.Customer
		gender string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Age, &gender); err != nil {
		return domain.Customer{}, err
	}
	c.Gender = domain.Gender(gender)
	return c, nil
}

func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrEmailTaken
	}
	return err
}
