package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/avstrong/lakeside/internal/logger"
)

var ErrRemoteUnavailable = errors.New("remote service unavailable")

// RemoteError is a non-2xx answer from the remote API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote status %d", e.StatusCode)
	}

	return fmt.Sprintf("remote status %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemoteUnavailable
}

const (
	GatewayPayU      = "payu"
	GatewayInstamojo = "instamojo"
)

type Config struct {
	L              *logger.Logger
	BaseURL        string
	PaymentGateway string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// Client talks to the property/booking REST API and the payment endpoint.
type Client struct {
	l       *logger.Logger
	baseURL string
	gateway string
	http    *http.Client
}

func New(conf Config) *Client {
	hc := conf.HTTPClient
	if hc == nil {
		//nolint:exhaustruct
		hc = &http.Client{Timeout: conf.Timeout}
	}

	gateway := conf.PaymentGateway
	if gateway == "" {
		gateway = GatewayPayU
	}

	return &Client{
		l:       conf.L,
		baseURL: conf.BaseURL,
		gateway: gateway,
		http:    hc,
	}
}

// do sends the request and returns the body of a 2xx answer. Transport
// failures and other statuses wrap ErrRemoteUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now().UTC()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", method, path, err, ErrRemoteUnavailable) //nolint:errorlint
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %v: %w", method, path, err, ErrRemoteUnavailable) //nolint:errorlint
	}

	var traceID string

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	c.l.LogDebugf(
		"type: remote, method: %s, path: %s, status: %d, traceID: %s, latency: %s",
		method,
		path,
		resp.StatusCode,
		traceID,
		time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	return raw, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if body.Error != "" {
		return body.Error
	}

	return body.Message
}

// unwrapData accepts either a bare JSON array or an object carrying the
// array under "data".
func unwrapData(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return json.RawMessage("[]"), nil
	}

	return envelope.Data, nil
}
