package storage

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestMapPQError(t *testing.T) {
	if err := mapPQError(nil); err != nil {
		t.Fatalf("nil should map to nil, got %v", err)
	}

	unique := &pq.Error{Code: pqUniqueViolation, Constraint: "customer_email_lower_idx"}
	if err := mapPQError(unique); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("unique violation should map to ErrEmailTaken, got %v", err)
	}

	wrapped := errors.Join(errors.New("insert"), unique)
	if err := mapPQError(wrapped); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("wrapped unique violation should map to ErrEmailTaken, got %v", err)
	}

	notNull := &pq.Error{Code: "23502"}
	if err := mapPQError(notNull); err != notNull {
		t.Fatalf("other pq errors should pass through, got %v", err)
	}
	if err := mapPQError(sql.ErrConnDone); err != sql.ErrConnDone {
		t.Fatalf("non pq errors should pass through, got %v", err)
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		}
	}
	return nil
}

func TestScanCustomer(t *testing.T) {
	c, err := scanCustomer(fakeRow{values: []any{7, "Ann", "ann@example.com", 30, "FEMALE"}})
	if err != nil {
		t.Fatalf("scanCustomer: %v", err)
	}
	if c.ID != 7 || c.Name != "Ann" || c.Email != "ann@example.com" || c.Age != 30 || c.Gender != "FEMALE" {
		t.Fatalf("unexpected customer %+v", c)
	}

	if _, err := scanCustomer(fakeRow{err: sql.ErrNoRows}); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
