package customers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-customers/internal/domain"
	"github.com/samvad-hq/samvad-customers/pkg/httpclient"
)

// Customer is the resource shape served by the customer API.
type Customer = domain.Customer

// Gender is the customer gender as exchanged on the wire.
type Gender = domain.Gender

// RegistrationRequest is the body accepted by SaveCustomer on the reference server.
type RegistrationRequest = domain.RegistrationRequest

// UpdateRequest is the body accepted by UpdateCustomer on the reference server.
type UpdateRequest = domain.UpdateRequest

const maxSnippetBytes = 512

// StatusError describes a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http response status %d", e.StatusCode)
	}
	return fmt.Sprintf("http response status %d: %s", e.StatusCode, e.Body)
}

var errNilResponse = errors.New("nil response")

// CheckStatus returns a *StatusError when resp carries a non-2xx status.
func CheckStatus(resp httpclient.Response) error {
	if resp == nil {
		return errNilResponse
	}
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{StatusCode: code, Body: readBodySnippet(resp.Body())}
}

// DecodeCustomers checks the status of resp and decodes a customer list.
func DecodeCustomers(resp httpclient.Response) ([]Customer, error) {
	if err := CheckStatus(resp); err != nil {
		return nil, err
	}
	var out []Customer
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return out, nil
}

// DecodeCustomer checks the status of resp and decodes a single customer.
func DecodeCustomer(resp httpclient.Response) (Customer, error) {
	if err := CheckStatus(resp); err != nil {
		return Customer{}, err
	}
	var out Customer
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return Customer{}, fmt.Errorf("decode customer: %w", err)
	}
	return out, nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
