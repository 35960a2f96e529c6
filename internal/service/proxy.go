package service

import (
	"bytes"
	"context"
	"course-marketplace/internal/client"
	"encoding/json"
	"fmt"
	"strings"
)

// ProxyService fronts the invoicing provider for operators. Requests are
// checked before anything leaves the process.
type ProxyService interface {
	ExchangeToken(ctx context.Context, id, secret string) (*client.RelayResponse, error)
	Relay(ctx context.Context, endpoint string, data json.RawMessage, token string) (*client.RelayResponse, error)
}

type proxyServiceImpl struct {
	invoiceClient client.InvoiceClient
}

func NewProxyService(invoiceClient client.InvoiceClient) ProxyService {
	return &proxyServiceImpl{
		invoiceClient: invoiceClient,
	}
}

func (s *proxyServiceImpl) ExchangeToken(ctx context.Context, id, secret string) (*client.RelayResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: secret", ErrMissingField)
	}

	return s.invoiceClient.RequestToken(ctx, id, secret)
}

func (s *proxyServiceImpl) Relay(ctx context.Context, endpoint string, data json.RawMessage, token string) (*client.RelayResponse, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint", ErrMissingField)
	}
	if isEmptyJSON(data) {
		return nil, fmt.Errorf("%w: data", ErrMissingField)
	}
	if endpoint != client.TokenEndpoint && strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: tokenRequest", ErrMissingField)
	}
	if !strings.HasPrefix(endpoint, "/") || strings.HasPrefix(endpoint, "//") {
		return nil, ErrInvalidEndpoint
	}

	return s.invoiceClient.Relay(ctx, endpoint, token, data)
}

func isEmptyJSON(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
