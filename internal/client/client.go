package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	errs "distr-calc/internal/calculator/errors"
	types "distr-calc/internal/service/types"
	"distr-calc/internal/logger"
)

// Client talks to a calcd server.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	logger.Debugf("Creating calculator client for %s", baseURL)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Calculate evaluates expr remotely. Evaluation failures are returned as
// *errs.EvaluationError with the kind reported by the server.
func (c *Client) Calculate(ctx context.Context, expr string) (float64, error) {
	body, err := json.Marshal(types.CalculateRequest{Expression: expr})
	if err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/calculate", body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var result types.CalculateResponse
	switch resp.StatusCode {
	case http.StatusCreated:
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return 0, fmt.Errorf("decode calculate response: %w", err)
		}
		value, err := strconv.ParseFloat(result.Display, 64)
		if err != nil {
			return 0, fmt.Errorf("parse result %q: %w", result.Display, err)
		}
		logger.Debugf("Expression %s evaluated remotely as %s", result.ID, result.Display)
		return value, nil
	case http.StatusUnprocessableEntity:
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return 0, fmt.Errorf("decode calculate response: %w", err)
		}
		kind := errs.ParseKind(result.Kind)
		if kind == errs.KindUnknown {
			return 0, fmt.Errorf("calculate: %s", result.Error)
		}
		return 0, &errs.EvaluationError{Kind: kind, Pos: -1, Reason: "rejected by server"}
	default:
		return 0, statusError(resp)
	}
}

// History lists the server's evaluated expressions, oldest first.
func (c *Client) History(ctx context.Context) ([]types.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/expressions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var list types.ExpressionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return list.Expressions, nil
}

func (c *Client) ClearHistory(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/v1/expressions", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warnf("Failed to connect to server at %s: %v", c.baseURL, err)
		return nil, fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	logger.Errorf("Unexpected status code: %d", resp.StatusCode)
	if body.Error != "" {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
}
