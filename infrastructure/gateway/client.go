// Package gateway implements the client side of the persistence and
// simulation service boundaries over HTTP. Responses arrive in the
// service's standard envelope; failures are mapped onto the application
// error taxonomy so callers never see raw HTTP details.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/config"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/auth"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// envelope mirrors the service's standard response body
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is the shared HTTP client both gateways are built on. A 401
// from any call clears the stored credential and fires the session's
// unauthorized handler before the error is returned.
type Client struct {
	http        *resty.Client
	credentials *auth.CredentialStore
	logger      *zap.Logger
}

// NewClient creates a gateway client rooted at baseURL. A stalled
// connection fails after timeout as a transport error; timeout <= 0
// leaves the transport unbounded.
func NewClient(baseURL string, timeout time.Duration, credentials *auth.CredentialStore, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}

	httpClient.AddRequestMiddleware(func(c *resty.Client, req *resty.Request) error {
		if token := credentials.Token(); token != "" {
			req.SetAuthToken(token)
		}
		return nil
	})

	return &Client{
		http:        httpClient,
		credentials: credentials,
		logger:      logger,
	}
}

// NewClientFromConfig builds the shared client from the gateway section
// of the configuration
func NewClientFromConfig(cfg *config.Config, credentials *auth.CredentialStore, logger *zap.Logger) *Client {
	return NewClient(cfg.APIBaseURL, cfg.RequestTimeout, credentials, logger)
}

// Close releases the underlying transport
func (c *Client) Close() error {
	return c.http.Close()
}

// call executes one request and decodes the envelope's data into out
// (out may be nil for calls with no payload)
func (c *Client) call(req *resty.Request, method, path string, out interface{}) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return pkgerrors.NewTransportError(fmt.Sprintf("%s %s", method, path), err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.logger.Warn("request rejected as unauthorized", zap.String("path", path))
		c.credentials.HandleUnauthorized()
		return pkgerrors.NewUnauthorizedError("session expired")
	}

	var env envelope
	if err := json.Unmarshal(resp.Bytes(), &env); err != nil {
		return pkgerrors.NewTransportError(fmt.Sprintf("%s %s", method, path), err)
	}

	if resp.IsError() || !env.Success {
		return c.mapError(resp.StatusCode(), env.Error, path)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return pkgerrors.NewTransportError(fmt.Sprintf("decode %s", path), err)
		}
	}
	return nil
}

func (c *Client) mapError(status int, apiErr *envelopeError, path string) error {
	message := "request failed"
	if apiErr != nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	switch status {
	case http.StatusNotFound:
		return pkgerrors.NewNotFoundError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.NewValidationError(message)
	case http.StatusConflict:
		return pkgerrors.NewConflictError(message)
	default:
		c.logger.Error("gateway call failed",
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("message", message),
		)
		return pkgerrors.NewExternalError(path, fmt.Errorf("status %d: %s", status, message))
	}
}
