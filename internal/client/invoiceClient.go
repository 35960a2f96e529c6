package client

import (
	"bytes"
	"context"
	"course-marketplace/internal/config"
	"course-marketplace/internal/metrics"
	"course-marketplace/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	TokenEndpoint       = "/account/token"
	PaymentFormEndpoint = "/payments/form"
)

// InvoiceClient talks to the invoicing/payment provider. Every call is a
// single attempt; nothing is retried or cached.
type InvoiceClient interface {
	// RequestToken exchanges a credential pair for a bearer token and returns
	// the provider's reply untouched. Non-2xx replies become *APIError.
	RequestToken(ctx context.Context, id, secret string) (*RelayResponse, error)

	// Relay posts data to endpoint with the bearer token and returns whatever
	// the provider answered, whatever the status.
	Relay(ctx context.Context, endpoint, token string, data json.RawMessage) (*RelayResponse, error)

	// Token requests a bearer token with the server-held credentials.
	Token(ctx context.Context) (string, error)

	CreatePaymentForm(ctx context.Context, token string, form *model.PaymentFormRequest) (*model.PaymentFormResponse, error)
}

type RelayResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// APIError is a provider reply that signals failure.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

var ErrEmptyToken = errors.New("provider returned an empty token")

type invoiceClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
}

func NewInvoiceClient(invoiceCfg *config.Invoice) InvoiceClient {
	timeout := invoiceCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &invoiceClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseApiURL:   strings.TrimRight(invoiceCfg.BaseApiURL, "/"),
		clientID:     invoiceCfg.ClientID,
		clientSecret: invoiceCfg.ClientSecret,
	}
}

func (c *invoiceClientImpl) RequestToken(ctx context.Context, id, secret string) (*RelayResponse, error) {
	resp, err := c.post(ctx, "token", TokenEndpoint, "", &model.TokenRequest{ID: id, Secret: secret})
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		return nil, parseAPIError(resp)
	}
	return resp, nil
}

func (c *invoiceClientImpl) Relay(ctx context.Context, endpoint, token string, data json.RawMessage) (*RelayResponse, error) {
	return c.post(ctx, "relay", endpoint, token, data)
}

func (c *invoiceClientImpl) Token(ctx context.Context) (string, error) {
	resp, err := c.RequestToken(ctx, c.clientID, c.clientSecret)
	if err != nil {
		return "", err
	}

	var res model.TokenResponse
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if res.Token == "" {
		return "", ErrEmptyToken
	}

	return res.Token, nil
}

func (c *invoiceClientImpl) CreatePaymentForm(ctx context.Context, token string, form *model.PaymentFormRequest) (*model.PaymentFormResponse, error) {
	resp, err := c.post(ctx, "payment_form", PaymentFormEndpoint, token, form)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		return nil, parseAPIError(resp)
	}

	var result model.PaymentFormResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decode payment form response: %w", err)
	}

	if result.ErrorCode != 0 || result.URL == "" {
		return nil, &APIError{
			StatusCode: http.StatusInternalServerError,
			Code:       result.ErrorCode,
			Message:    "payment form response has no url",
		}
	}

	return &result, nil
}

func (c *invoiceClientImpl) post(ctx context.Context, label, endpoint, token string, payload any) (*RelayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(label, "error").Inc()
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(label, "error").Inc()
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	metrics.ProviderRequests.WithLabelValues(label, http.StatusText(resp.StatusCode)).Inc()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &RelayResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        b,
	}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func parseAPIError(resp *RelayResponse) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	var body model.ProviderError
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		apiErr.Code = body.ErrorCode
		if body.ErrorMessage != "" {
			apiErr.Message = body.ErrorMessage
		}
	}

	return apiErr
}
