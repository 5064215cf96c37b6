package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/teller/internal/config"
	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 512
)

// Client talks to the transaction API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	delay      time.Duration
	logger     *zap.Logger
}

func NewClient(cfg config.BackendConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", cfg.BaseURL)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		delay:      cfg.ArtificialDelay,
		logger:     logger.Named("backend"),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Submit sends a deposit or withdrawal and returns the account as the
// backend now sees it.
func (c *Client) Submit(ctx context.Context, accountNumber int64, kind model.Kind, amount decimal.Decimal) (model.Account, error) {
	op := string(kind)
	if !kind.Valid() {
		return model.Account{}, &TransportError{Op: op, Err: fmt.Errorf("unknown transaction kind %q", kind)}
	}

	if err := c.wait(ctx); err != nil {
		return model.Account{}, &TransportError{Op: op, Err: err}
	}

	path := fmt.Sprintf("/transactions/%d/%s", accountNumber, kind)
	return c.do(ctx, op, http.MethodPut, path, model.TransactionRequest{Amount: amount})
}

// GetAccount loads the current snapshot of an account.
func (c *Client) GetAccount(ctx context.Context, accountNumber int64) (model.Account, error) {
	return c.do(ctx, "get account", http.MethodGet, "/accounts/"+strconv.FormatInt(accountNumber, 10), nil)
}

// wait applies the configured artificial delay so the pending state is visible.
func (c *Client) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (model.Account, error) {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("op", op), zap.String("request_id", requestID))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return model.Account{}, &TransportError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return model.Account{}, &TransportError{Op: op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("backend request failed", zap.Error(err))
		return model.Account{}, &TransportError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("backend rejected request",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return model.Account{}, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorMessage(msg, resp.Status)),
		}
	}

	var result model.TransactionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Warn("malformed backend response", zap.Error(err))
		return model.Account{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}

	account := result.ToAccount()
	if err := account.Validate(); err != nil {
		log.Warn("backend returned an inconsistent account", zap.Error(err))
		return model.Account{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}

	log.Debug("backend request settled", zap.Duration("elapsed", time.Since(start)))
	return account, nil
}

// errorMessage prefers the {"error": "..."} body the dev server writes.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}
