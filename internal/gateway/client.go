// Package gateway wraps the external payment provider. The provider is an
// opaque service with a two-call contract: open a transaction, then learn its
// fate through a webhook or by polling.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/logger"
)

// Transaction is an opened gateway transaction.
type Transaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type Client interface {
	Initiate(ctx context.Context, amountCLP int32, returnURL string) (*Transaction, error)
	GetStatus(ctx context.Context, token string) (domain.GatewayStatus, error)
}

type httpClient struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
}

func NewClient(baseURL, apiKey string, timeout time.Duration, maxRetries int) Client {
	return &httpClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

func (c *httpClient) Initiate(ctx context.Context, amountCLP int32, returnURL string) (*Transaction, error) {
	if amountCLP <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidQuote)
	}
	body, err := json.Marshal(map[string]any{
		"amount":     amountCLP,
		"return_url": returnURL,
	})
	if err != nil {
		return nil, err
	}

	var tx Transaction
	err = c.doWithRetry(ctx, "initiate", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return &permanentError{fmt.Errorf("gateway rejected transaction: status %d", resp.StatusCode)}
		}
		return json.NewDecoder(resp.Body).Decode(&tx)
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *httpClient) GetStatus(ctx context.Context, token string) (domain.GatewayStatus, error) {
	var result struct {
		Status domain.GatewayStatus `json:"status"`
	}
	err := c.doWithRetry(ctx, "get_status", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions/"+token, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		if resp.StatusCode == http.StatusNotFound {
			return &permanentError{domain.ErrNotFound}
		}
		if resp.StatusCode >= 400 {
			return &permanentError{fmt.Errorf("gateway rejected status query: status %d", resp.StatusCode)}
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// permanentError marks a failure that a retry cannot fix (4xx responses).
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// doWithRetry retries transient failures with doubling backoff. Exhausted
// retries surface as ErrGatewayUnavailable so the caller can back off at its
// own level; the reconciler never confirms on a failed call.
func (c *httpClient) doWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		logger.ExternalServiceCall("payment-gateway", operation, "attempt", attempt+1)
		err := fn(ctx)
		logger.ExternalServiceResult("payment-gateway", operation, err)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %v: %w", operation, c.maxRetries+1, lastErr, domain.ErrGatewayUnavailable)
}
