package storage

import (
	"context"
	"sync"

	"github.com/samvad-hq/samvad-customers/internal/domain"
)

// memoryStore keeps customers in a slice for development and tests.
type memoryStore struct {
	mu        sync.RWMutex
	customers []domain.Customer
	nextID    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SelectAll(context.Context) ([]domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Customer, len(m.customers))
	copy(out, m.customers)
	return out, nil
}

func (m *memoryStore) SelectByID(_ context.Context, id int) (domain.Customer, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		return m.customers[i], true, nil
	}
	return domain.Customer{}, false, nil
}

func (m *memoryStore) Insert(_ context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasEmail(c.Email, 0) {
		return domain.Customer{}, ErrEmailTaken
	}
	c.ID = m.nextID
	m.nextID++
	m.customers = append(m.customers, c)
	return c, nil
}

func (m *memoryStore) ExistsWithEmail(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasEmail(email, 0), nil
}

func (m *memoryStore) ExistsWithID(_ context.Context, id int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(id) >= 0, nil
}

func (m *memoryStore) DeleteByID(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		m.customers = append(m.customers[:i], m.customers[i+1:]...)
	}
	return nil
}

// Update replaces the row with the same id; unknown ids are ignored.
func (m *memoryStore) Update(_ context.Context, c domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(c.ID)
	if i < 0 {
		return nil
	}
	if m.hasEmail(c.Email, c.ID) {
		return ErrEmailTaken
	}
	m.customers[i] = c
	return nil
}

func (m *memoryStore) indexOf(id int) int {
	for i := range m.customers {
		if m.customers[i].ID == id {
			return i
		}
	}
	return -1
}

// hasEmail reports whether a customer other than exceptID uses email.
func (m *memoryStore) hasEmail(email string, exceptID int) bool {
	key := normalizeEmail(email)
	for _, c := range m.customers {
		if c.ID != exceptID && normalizeEmail(c.Email) == key {
			return true
		}
	}
	return false
}
