package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samvad-hq/samvad-customers/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	customerBucket = "customers"
	emailBucket    = "customer_emails"
	idKeyBytes     = 8
)

// boltStore implements a Store backed by BoltDB. Customers are stored as JSON
// keyed by their big-endian id; a second bucket maps emails to ids.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: opts.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{customerBucket, emailBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) SelectAll(context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := b.db.View(func(tx *bolt.Tx) error {
		customers, _, err := buckets(tx)
		if err != nil {
			return err
		}
		return customers.ForEach(func(_, v []byte) error {
			var c domain.Customer
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decode customer: %w", err)
			}
			out = append(out, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *boltStore) SelectByID(_ context.Context, id int) (domain.Customer, bool, error) {
	var (
		c     domain.Customer
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		customers, _, err := buckets(tx)
		if err != nil {
			return err
		}
		raw := customers.Get(encodeID(id))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &c)
	})
	if err != nil {
		return domain.Customer{}, false, fmt.Errorf("select customer %d: %w", id, err)
	}
	return c, found, nil
}

func (b *boltStore) Insert(_ context.Context, c domain.Customer) (domain.Customer, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		customers, emails, err := buckets(tx)
		if err != nil {
			return err
		}
		email := []byte(normalizeEmail(c.Email))
		if emails.Get(email) != nil {
			return ErrEmailTaken
		}
		seq, err := customers.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		c.ID = int(seq)
		return putCustomer(customers, emails, c)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (b *boltStore) ExistsWithEmail(_ context.Context, email string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		_, emails, err := buckets(tx)
		if err != nil {
			return err
		}
		exists = emails.Get([]byte(normalizeEmail(email))) != nil
		return nil
	})
	return exists, err
}

func (b *boltStore) ExistsWithID(_ context.Context, id int) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		customers, _, err := buckets(tx)
		if err != nil {
			return err
		}
		exists = customers.Get(encodeID(id)) != nil
		return nil
	})
	return exists, err
}

func (b *boltStore) DeleteByID(_ context.Context, id int) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		customers, emails, err := buckets(tx)
		if err != nil {
			return err
		}
		key := encodeID(id)
		raw := customers.Get(key)
		if raw == nil {
			return nil
		}
		var existing domain.Customer
		if err := json.Unmarshal(raw, &existing); err == nil {
			if err := emails.Delete([]byte(normalizeEmail(existing.Email))); err != nil {
				return err
			}
		}
		return customers.Delete(key)
	})
}

// Update replaces the stored row and re-indexes the email when it changed.
func (b *boltStore) Update(_ context.Context, c domain.Customer) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		customers, emails, err := buckets(tx)
		if err != nil {
			return err
		}
		raw := customers.Get(encodeID(c.ID))
		if raw == nil {
			return nil
		}
		var existing domain.Customer
		if err := json.Unmarshal(raw, &existing); err != nil {
			return fmt.Errorf("decode customer: %w", err)
		}

		oldEmail := normalizeEmail(existing.Email)
		newEmail := normalizeEmail(c.Email)
		if oldEmail != newEmail {
			if owner := emails.Get([]byte(newEmail)); owner != nil && decodeID(owner) != c.ID {
				return ErrEmailTaken
			}
			if err := emails.Delete([]byte(oldEmail)); err != nil {
				return err
			}
		}
		return putCustomer(customers, emails, c)
	})
}

func buckets(tx *bolt.Tx) (customers, emails *bolt.Bucket, err error) {
	customers = tx.Bucket([]byte(customerBucket))
	emails = tx.Bucket([]byte(emailBucket))
	if customers == nil || emails == nil {
		return nil, nil, errors.New("customer buckets missing")
	}
	return customers, emails, nil
}

func putCustomer(customers, emails *bolt.Bucket, c domain.Customer) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}
	key := encodeID(c.ID)
	if err := customers.Put(key, raw); err != nil {
		return err
	}
	return emails.Put([]byte(normalizeEmail(c.Email)), key)
}

func encodeID(id int) []byte {
	buf := make([]byte, idKeyBytes)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func decodeID(value []byte) int {
	if len(value) != idKeyBytes {
		return 0
	}
	return int(binary.BigEndian.Uint64(value))
}
