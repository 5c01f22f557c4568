package domain

import (
	"fmt"
	"strings"
)

// Domain contains core models shared by the API server, storage and clients.

// Gender of a customer as exchanged on the wire.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender normalizes s into a Gender, ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Customer struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Age    int    `json:"age" yaml:"age"`
	Gender Gender `json:"gender" yaml:"gender"`
}

// RegistrationRequest is the payload accepted when creating a customer.
type RegistrationRequest struct {
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Age    int    `json:"age" yaml:"age"`
	Gender Gender `json:"gender" yaml:"gender"`
}

// UpdateRequest carries optional field changes; nil fields are left untouched.
type UpdateRequest struct {
	Name  *string `json:"name,omitempty" yaml:"name,omitempty"`
	Email *string `json:"email,omitempty" yaml:"email,omitempty"`
	Age   *int    `json:"age,omitempty" yaml:"age,omitempty"`
}
