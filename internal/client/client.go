// Package client is the HTTP adapter for the remote catalog/cart service.
// It translates engine calls into JSON requests and classifies every failure
// into a fault kind before it leaves this package.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/shopcart/internal/cart"
	"github.com/example/shopcart/internal/catalog"
	"github.com/example/shopcart/internal/fault"
	"github.com/example/shopcart/internal/session"
)

const (
	defaultTimeout = 10 * time.Second

	// maxBodyBytes caps response reads; the catalog is small and anything
	// bigger than this is not a response we can use.
	maxBodyBytes = 4 * 1024 * 1024
)

// Client talks to the catalog/cart service. The zero value is not usable;
// construct with New.
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
}

// New returns a client rooted at base (e.g. "http://localhost:8082/api/v1").
// A zero timeout falls back to the default.
func New(base string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("client"),
	}
}

// errorBody is the service's error envelope. The message field is optional;
// its absence downgrades the failure to a generic connectivity fault.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListProducts fetches the full catalog. A 404 means an empty catalog and
// yields a NotFound fault with no products.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts fetches the catalog subset matching text.
func (c *Client) SearchProducts(ctx context.Context, text string) ([]catalog.Product, error) {
	path := "/products/search?value=" + url.QueryEscape(text)
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCart fetches the authenticated user's cart entries.
func (c *Client) GetCart(ctx context.Context, token string) ([]cart.Entry, error) {
	var entries []cart.Entry
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertCart sets the quantity for productID and returns the full updated
// cart as held by the server. Quantity zero removes the line.
func (c *Client) UpsertCart(ctx context.Context, token, productID string, quantity int) ([]cart.Entry, error) {
	body := struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"qty"`
	}{ProductID: productID, Quantity: quantity}

	var entries []cart.Entry
	if err := c.do(ctx, http.MethodPost, "/cart", token, body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Register creates a new account. Conflicts ("Username is already taken")
// come back as RemoteRejected with the server's message.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	return c.do(ctx, http.MethodPost, "/auth/register", "", body, nil)
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Balance  int    `json:"balance"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return session.Session{}, err
	}
	if resp.Token == "" {
		return session.Session{}, fault.New(fault.RemoteUnavailable, fault.GenericUnavailableMessage)
	}
	return session.Session{Token: resp.Token, Username: resp.Username, Balance: resp.Balance}, nil
}

// do issues one request and decodes the response into out (when out is
// non-nil). No retries: retry is a caller decision.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fault.Wrap(fault.RemoteUnavailable, fault.GenericUnavailableMessage, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fault.Wrap(fault.RemoteUnavailable, fault.GenericUnavailableMessage, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fault.Wrap(fault.RemoteUnavailable, fault.GenericUnavailableMessage, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fault.Wrap(fault.RemoteUnavailable, fault.GenericUnavailableMessage, err)
	}

	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.classify(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fault.Wrap(fault.RemoteUnavailable, fault.GenericUnavailableMessage,
				fmt.Errorf("parsing response (HTTP %d): %w", resp.StatusCode, err))
		}
	}
	return nil
}

// classify maps a non-2xx response onto the fault taxonomy. Status is
// checked first, then the structured message field.
func (c *Client) classify(status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	switch {
	case status == http.StatusUnauthorized:
		msg := eb.Message
		if msg == "" {
			msg = "Session expired. Login again to continue."
		}
		return fault.New(fault.Unauthenticated, msg)
	case status == http.StatusNotFound:
		return fault.New(fault.NotFound, "No products found")
	case status >= 400 && status < 500 && eb.Message != "":
		return fault.New(fault.RemoteRejected, eb.Message)
	default:
		return fault.New(fault.RemoteUnavailable, fault.GenericUnavailableMessage)
	}
}
