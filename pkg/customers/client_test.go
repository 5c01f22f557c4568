package customers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-customers/pkg/httpclient"
)

type recordedRequest struct {
	method string
	url    string
	body   any
}

type mockTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	resp     httpclient.Response
	err      error
}

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte        { return r.body }
func (r mockResponse) StatusCode() int     { return r.statusCode }
func (r mockResponse) Header() http.Header { return http.Header{} }

func (m *mockTransport) record(method, url string, body any) (httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{method: method, url: url, body: body})
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return mockResponse{statusCode: http.StatusOK}, nil
}

func (m *mockTransport) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	return m.record(http.MethodGet, url, nil)
}

func (m *mockTransport) Post(_ context.Context, url string, body any, _ map[string]string) (httpclient.Response, error) {
	return m.record(http.MethodPost, url, body)
}

func (m *mockTransport) Put(_ context.Context, url string, body any, _ map[string]string) (httpclient.Response, error) {
	return m.record(http.MethodPut, url, body)
}

func (m *mockTransport) Delete(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	return m.record(http.MethodDelete, url, nil)
}

func (m *mockTransport) only(t *testing.T) recordedRequest {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(m.requests))
	}
	return m.requests[0]
}

func TestListCustomersIssuesGet(t *testing.T) {
	transport := &mockTransport{}
	client := New(transport, StaticBaseURL("http://api.test"))

	if _, err := client.ListCustomers(context.Background()); err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}

	req := transport.only(t)
	if req.method != http.MethodGet || req.url != "http://api.test/api/v1/customers" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestSaveCustomerPostsPayloadUnmodified(t *testing.T) {
	transport := &mockTransport{}
	client := New(transport, StaticBaseURL("http://api.test"))
	payload := map[string]any{"name": "Ann"}

	if _, err := client.SaveCustomer(context.Background(), payload); err != nil {
		t.Fatalf("SaveCustomer: %v", err)
	}

	req := transport.only(t)
	if req.method != http.MethodPost || req.url != "http://api.test/api/v1/customers" {
		t.Fatalf("unexpected request %+v", req)
	}
	body, ok := req.body.(map[string]any)
	if !ok || len(body) != 1 || body["name"] != "Ann" {
		t.Fatalf("expected payload passed through, got %#v", req.body)
	}
}

func TestDeleteCustomerIssuesDelete(t *testing.T) {
	transport := &mockTransport{}
	client := New(transport, StaticBaseURL("http://api.test"))

	if _, err := client.DeleteCustomer(context.Background(), "42"); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}

	req := transport.only(t)
	if req.method != http.MethodDelete || req.url != "http://api.test/api/v1/customers/42" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestGetAndUpdateCustomer(t *testing.T) {
	transport := &mockTransport{}
	client := New(transport, StaticBaseURL("http://api.test"))
	update := UpdateRequest{}

	if _, err := client.GetCustomer(context.Background(), "7"); err != nil {
		t.Fatalf("GetCustomer: %v", err)
	}
	if _, err := client.UpdateCustomer(context.Background(), "7", update); err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}

	if len(transport.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(transport.requests))
	}
	get, put := transport.requests[0], transport.requests[1]
	if get.method != http.MethodGet || get.url != "http://api.test/api/v1/customers/7" {
		t.Fatalf("unexpected get %+v", get)
	}
	if put.method != http.MethodPut || put.url != "http://api.test/api/v1/customers/7" {
		t.Fatalf("unexpected put %+v", put)
	}
	if _, ok := put.body.(UpdateRequest); !ok {
		t.Fatalf("expected update body passed through, got %T", put.body)
	}
}

func TestTransportErrorsArePropagatedUnchanged(t *testing.T) {
	timeout := errors.New("network timeout")
	transport := &mockTransport{err: timeout}
	client := New(transport, StaticBaseURL("http://api.test"))
	ctx := context.Background()

	calls := map[string]func() (httpclient.Response, error){
		"list":   func() (httpclient.Response, error) { return client.ListCustomers(ctx) },
		"save":   func() (httpclient.Response, error) { return client.SaveCustomer(ctx, map[string]any{}) },
		"delete": func() (httpclient.Response, error) { return client.DeleteCustomer(ctx, "1") },
		"get":    func() (httpclient.Response, error) { return client.GetCustomer(ctx, "1") },
		"update": func() (httpclient.Response, error) { return client.UpdateCustomer(ctx, "1", nil) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			resp, err := call()
			if err != timeout {
				t.Fatalf("expected the identical transport error, got %v", err)
			}
			if resp != nil {
				t.Fatalf("expected nil response, got %v", resp)
			}
		})
	}
}

func TestResponseIsReturnedAsIs(t *testing.T) {
	want := mockResponse{statusCode: http.StatusConflict, body: []byte("taken")}
	client := New(&mockTransport{resp: want}, StaticBaseURL("http://api.test"))

	resp, err := client.SaveCustomer(context.Background(), map[string]any{"name": "Ann"})
	if err != nil {
		t.Fatalf("non-2xx must not become an error here: %v", err)
	}
	got, ok := resp.(mockResponse)
	if !ok || got.statusCode != want.statusCode || string(got.body) != "taken" {
		t.Fatalf("expected transport response to be returned unchanged, got %#v", resp)
	}
}

func TestBaseURLResolvedPerCall(t *testing.T) {
	transport := &mockTransport{}
	base := "http://one.test"
	client := New(transport, func() string { return base })

	_, _ = client.ListCustomers(context.Background())
	base = "http://two.test"
	_, _ = client.ListCustomers(context.Background())

	if got := transport.requests[0].url; got != "http://one.test/api/v1/customers" {
		t.Fatalf("first url = %s", got)
	}
	if got := transport.requests[1].url; got != "http://two.test/api/v1/customers" {
		t.Fatalf("second url = %s", got)
	}
}

func TestConcurrentCallsDoNotInterfere(t *testing.T) {
	transport := &mockTransport{}
	client := New(transport, StaticBaseURL("http://api.test"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.ListCustomers(context.Background())
		}()
	}
	wg.Wait()

	if len(transport.requests) != 20 {
		t.Fatalf("expected 20 requests, got %d", len(transport.requests))
	}
	for _, req := range transport.requests {
		if req.url != "http://api.test/api/v1/customers" {
			t.Fatalf("unexpected url %s", req.url)
		}
	}
}

func TestClientOverRestyTransport(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var (
		mu   sync.Mutex
		hits []seen
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Errorf("body is not json: %v", err)
			}
		}
		mu.Lock()
		hits = append(hits, seen{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(httpclient.NewRestyClient(2*time.Second), StaticBaseURL(srv.URL))
	ctx := context.Background()

	if _, err := client.ListCustomers(ctx); err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if _, err := client.SaveCustomer(ctx, map[string]any{"name": "Ann"}); err != nil {
		t.Fatalf("SaveCustomer: %v", err)
	}
	if _, err := client.DeleteCustomer(ctx, "42"); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}

	if len(hits) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(hits))
	}
	if hits[0].method != http.MethodGet || hits[0].path != ResourcePath {
		t.Fatalf("unexpected list request %+v", hits[0])
	}
	if hits[1].method != http.MethodPost || hits[1].path != ResourcePath || hits[1].body["name"] != "Ann" {
		t.Fatalf("unexpected save request %+v", hits[1])
	}
	if hits[2].method != http.MethodDelete || hits[2].path != ResourcePath+"/42" {
		t.Fatalf("unexpected delete request %+v", hits[2])
	}
}

func TestSaveCustomerUnserializablePayload(t *testing.T) {
	var hit bool
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hit = true }))
	defer srv.Close()

	client := New(httpclient.NewRestyClient(time.Second), StaticBaseURL(srv.URL))
	_, err := client.SaveCustomer(context.Background(), map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Fatalf("expected serialization error")
	}
	if hit {
		t.Fatalf("server must not be reached when the payload cannot be encoded")
	}
}
