package app

import (
	"context"
	"errors"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samvad-hq/samvad-customers/internal/domain"
	"github.com/samvad-hq/samvad-customers/internal/logger"
	"github.com/samvad-hq/samvad-customers/internal/service"
)

const seedEmailDomain = "samvad.dev"

// seedRandomCustomer registers one fake customer. Even ages are MALE and odd
// ages FEMALE.
func seedRandomCustomer(ctx context.Context, svc *service.CustomerService, log logger.Logger) error {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	age := gofakeit.Number(16, 98)

	gender := domain.GenderFemale
	if age%2 == 0 {
		gender = domain.GenderMale
	}

	email := strings.ToLower(first) + "." + strings.ToLower(last) + "@" + seedEmailDomain
	c, err := svc.Register(ctx, domain.RegistrationRequest{
		Name:   first + " " + last,
		Email:  email,
		Age:    age,
		Gender: gender,
	})
	if errors.Is(err, service.ErrDuplicate) {
		log.WarnObj("seed customer already exists", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	log.InfoObj("seeded customer", "customer", c)
	return nil
}
