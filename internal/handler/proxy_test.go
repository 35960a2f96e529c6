package handler

import (
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/model"
	"course-marketplace/internal/service"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubInvoiceClient struct {
	calls int
	resp  *client.RelayResponse
	err   error
}

func (c *stubInvoiceClient) RequestToken(context.Context, string, string) (*client.RelayResponse, error) {
	c.calls++
	return c.resp, c.err
}

func (c *stubInvoiceClient) Relay(context.Context, string, string, json.RawMessage) (*client.RelayResponse, error) {
	c.calls++
	return c.resp, c.err
}

func (c *stubInvoiceClient) Token(context.Context) (string, error) {
	c.calls++
	return "tok", c.err
}

func (c *stubInvoiceClient) CreatePaymentForm(context.Context, string, *model.PaymentFormRequest) (*model.PaymentFormResponse, error) {
	c.calls++
	return nil, c.err
}

func newProxyEcho(stub *stubInvoiceClient) *echo.Echo {
	h := NewProxyHandler(service.NewProxyService(stub))
	e := echo.New()
	e.POST("/token", h.Token)
	e.POST("/relay", h.Relay)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenMissingSecretReturns400WithoutUpstreamCall(t *testing.T) {
	stub := &stubInvoiceClient{}
	e := newProxyEcho(stub)

	rec := postJSON(e, "/token", `{"id":"abc"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("expected message naming secret, got %s", rec.Body.String())
	}
	if stub.calls != 0 {
		t.Fatalf("expected no upstream call, got %d", stub.calls)
	}
}

func TestTokenReturnsProviderReplyVerbatim(t *testing.T) {
	stub := &stubInvoiceClient{resp: &client.RelayResponse{
		StatusCode:  http.StatusOK,
		ContentType: echo.MIMEApplicationJSON,
		Body:        []byte(`{"token":"tok-1","expires":1700000000}`),
	}}
	e := newProxyEcho(stub)

	rec := postJSON(e, "/token", `{"id":"abc","secret":"xyz"}`)

	if rec.Code != http.StatusOK || rec.Body.String() != `{"token":"tok-1","expires":1700000000}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestTokenForwardsProviderErrorStatus(t *testing.T) {
	stub := &stubInvoiceClient{err: &client.APIError{StatusCode: http.StatusUnauthorized, Message: "bad credentials"}}
	e := newProxyEcho(stub)

	rec := postJSON(e, "/token", `{"id":"abc","secret":"xyz"}`)

	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "bad credentials") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRelayMissingFieldsReturn400WithoutUpstreamCall(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{"endpoint":"/payments/form","tokenRequest":"tok"}`},
		{"missing tokenRequest", `{"endpoint":"/payments/form","data":{"amount":1}}`},
		{"missing endpoint", `{"data":{"amount":1},"tokenRequest":"tok"}`},
		{"absolute endpoint", `{"endpoint":"https://evil.test","data":{"amount":1},"tokenRequest":"tok"}`},
		{"broken json", `{"endpoint":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubInvoiceClient{}
			e := newProxyEcho(stub)

			rec := postJSON(e, "/relay", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if stub.calls != 0 {
				t.Fatalf("expected no upstream call, got %d", stub.calls)
			}
		})
	}
}

func TestRelayPassesProviderStatusThrough(t *testing.T) {
	stub := &stubInvoiceClient{resp: &client.RelayResponse{
		StatusCode:  http.StatusUnprocessableEntity,
		ContentType: echo.MIMEApplicationJSON,
		Body:        []byte(`{"errorCode":2002,"errorMessage":"bad amount"}`),
	}}
	e := newProxyEcho(stub)

	rec := postJSON(e, "/relay", `{"endpoint":"/payments/form","data":{"amount":-1},"tokenRequest":"tok"}`)

	if rec.Code != http.StatusUnprocessableEntity || rec.Body.String() != `{"errorCode":2002,"errorMessage":"bad amount"}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRelayWrongMethodReturns405(t *testing.T) {
	e := newProxyEcho(&stubInvoiceClient{})

	req := httptest.NewRequest(http.MethodGet, "/relay", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
