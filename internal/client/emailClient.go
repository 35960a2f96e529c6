package client

import (
	"bytes"
	"context"
	"course-marketplace/internal/config"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type EmailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type EmailClient interface {
	// Send returns the provider's message id.
	Send(ctx context.Context, msg *EmailMessage) (string, error)
}

type emailClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	from       string
}

func NewEmailClient(emailCfg *config.Email) EmailClient {
	return &emailClientImpl{
		httpClient: &http.Client{
			Timeout: emailCfg.Timeout,
		},
		baseApiURL: strings.TrimRight(emailCfg.BaseApiURL, "/"),
		apiKey:     emailCfg.ApiKey,
		from:       emailCfg.From,
	}
}

func (c *emailClientImpl) Send(ctx context.Context, msg *EmailMessage) (string, error) {
	if msg.From == "" {
		msg.From = c.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if !isSuccess(resp.StatusCode) {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(b)),
		}
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return "", fmt.Errorf("decode email response: %w", err)
	}

	return res.ID, nil
}

// Retryable reports whether a failed provider call may succeed when repeated:
// network failures, rate limiting and 5xx replies.
func Retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}
