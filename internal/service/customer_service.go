package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-customers/internal/domain"
	"github.com/samvad-hq/samvad-customers/internal/logger"
	"github.com/samvad-hq/samvad-customers/internal/storage"
)

var (
	// ErrNotFound is returned when the addressed customer does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate is returned when an email is already registered.
	ErrDuplicate = errors.New("duplicate resource")
	// ErrValidation is returned for requests that cannot be applied.
	ErrValidation = errors.New("request validation failed")
)

// CustomerService applies the customer business rules on top of a storage.Store.
type CustomerService struct {
	store storage.Store
	log   logger.Logger
}

// NewCustomerService builds a service; a nil logger disables logging.
func NewCustomerService(store storage.Store, log logger.Logger) *CustomerService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &CustomerService{store: store, log: log}
}

// List returns every stored customer.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Get returns the customer with id or an ErrNotFound.
func (s *CustomerService) Get(ctx context.Context, id int) (domain.Customer, error) {
	c, ok, err := s.store.SelectByID(ctx, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	if !ok {
		return domain.Customer{}, notFound(id)
	}
	return c, nil
}

// Register validates req and stores it as a new customer.
func (s *CustomerService) Register(ctx context.Context, req domain.RegistrationRequest) (domain.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if g, err := domain.ParseGender(string(req.Gender)); err == nil {
		req.Gender = g
	}
	if err := validateRegistration(req); err != nil {
		return domain.Customer{}, err
	}

	taken, err := s.store.ExistsWithEmail(ctx, req.Email)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.Customer{}, emailTaken()
	}

	c, err := s.store.Insert(ctx, domain.Customer{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return domain.Customer{}, emailTaken()
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	s.log.InfoObj("customer registered", "customer", map[string]any{"id": c.ID})
	return c, nil
}

// Delete removes the customer with id or returns an ErrNotFound.
func (s *CustomerService) Delete(ctx context.Context, id int) error {
	exists, err := s.store.ExistsWithID(ctx, id)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return notFound(id)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.log.InfoObj("customer deleted", "customer", map[string]any{"id": id})
	return nil
}

// Update applies the non-nil fields of req that differ from the stored customer.
func (s *CustomerService) Update(ctx context.Context, id int, req domain.UpdateRequest) (domain.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := validateUpdate(&req); err != nil {
		return domain.Customer{}, err
	}

	changed := false
	if req.Name != nil && *req.Name != c.Name {
		c.Name = *req.Name
		changed = true
	}
	if req.Email != nil && *req.Email != c.Email {
		taken, err := s.store.ExistsWithEmail(ctx, *req.Email)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("check email: %w", err)
		}
		if taken && !strings.EqualFold(*req.Email, c.Email) {
			return domain.Customer{}, emailTaken()
		}
		c.Email = *req.Email
		changed = true
	}
	if req.Age != nil && *req.Age != c.Age {
		c.Age = *req.Age
		changed = true
	}
	if !changed {
		return domain.Customer{}, fmt.Errorf("%w: no data changes found", ErrValidation)
	}

	err = s.store.Update(ctx, c)
	if errors.Is(err, storage.ErrEmailTaken) {
		return domain.Customer{}, emailTaken()
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	s.log.InfoObj("customer updated", "customer", map[string]any{"id": id})
	return c, nil
}

func validateRegistration(req domain.RegistrationRequest) error {
	switch {
	case req.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case req.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case req.Age <= 0:
		return fmt.Errorf("%w: age must be positive", ErrValidation)
	case !req.Gender.Valid():
		return fmt.Errorf("%w: gender must be MALE or FEMALE", ErrValidation)
	}
	return nil
}

// validateUpdate trims the supplied fields and applies the registration rules
// to each field that is present.
func validateUpdate(req *domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrValidation)
		}
		req.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return fmt.Errorf("%w: email is required", ErrValidation)
		}
		req.Email = &email
	}
	if req.Age != nil && *req.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrValidation)
	}
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("%w: customer with id [%d] not found", ErrNotFound, id)
}

func emailTaken() error {
	return fmt.Errorf("%w: email already taken", ErrDuplicate)
}
