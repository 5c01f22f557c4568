// Package customers is a thin client for the customer REST resource.
//
// Every operation issues exactly one request through the injected transport
// and returns the transport's response and error untouched. Status codes are
// not interpreted here; see CheckStatus for callers that want that.
package customers

import (
	"context"
	"strings"

	"github.com/samvad-hq/samvad-customers/pkg/httpclient"
)

// ResourcePath is the customer collection path, relative to the base URL.
const ResourcePath = "/api/v1/customers"

// BaseURLFunc resolves the API base URL. It is called once per operation.
type BaseURLFunc func() string

// StaticBaseURL returns a BaseURLFunc that always yields url.
func StaticBaseURL(url string) BaseURLFunc {
	return func() string { return url }
}

// Client issues customer requests against <baseURL>/api/v1/customers.
// It holds no mutable state and is safe for concurrent use if the transport is.
type Client struct {
	transport httpclient.Client
	baseURL   BaseURLFunc
}

// New builds a Client. A nil transport falls back to a resty transport without
// a client-level timeout; a nil baseURL resolves to the empty string.
func New(transport httpclient.Client, baseURL BaseURLFunc) *Client {
	if transport == nil {
		transport = httpclient.NewRestyClient(0)
	}
	if baseURL == nil {
		baseURL = StaticBaseURL("")
	}
	return &Client{transport: transport, baseURL: baseURL}
}

// ListCustomers issues GET <baseURL>/api/v1/customers.
func (c *Client) ListCustomers(ctx context.Context) (httpclient.Response, error) {
	return c.transport.Get(ctx, c.collectionURL(), nil)
}

// SaveCustomer issues POST <baseURL>/api/v1/customers with customer as the
// JSON body. The payload is passed to the transport as is.
func (c *Client) SaveCustomer(ctx context.Context, customer any) (httpclient.Response, error) {
	return c.transport.Post(ctx, c.collectionURL(), customer, nil)
}

// DeleteCustomer issues DELETE <baseURL>/api/v1/customers/<id>.
func (c *Client) DeleteCustomer(ctx context.Context, id string) (httpclient.Response, error) {
	return c.transport.Delete(ctx, c.itemURL(id), nil)
}

// GetCustomer issues GET <baseURL>/api/v1/customers/<id>.
func (c *Client) GetCustomer(ctx context.Context, id string) (httpclient.Response, error) {
	return c.transport.Get(ctx, c.itemURL(id), nil)
}

// UpdateCustomer issues PUT <baseURL>/api/v1/customers/<id> with update as the JSON body.
func (c *Client) UpdateCustomer(ctx context.Context, id string, update any) (httpclient.Response, error) {
	return c.transport.Put(ctx, c.itemURL(id), update, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL() + ResourcePath
}

// itemURL appends id verbatim; escaping is left to the transport.
func (c *Client) itemURL(id string) string {
	var b strings.Builder
	b.WriteString(c.collectionURL())
	b.WriteByte('/')
	b.WriteString(id)
	return b.String()
}
