package trilium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/trilium-community/trilium.go/internal/codec"
	"github.com/trilium-community/trilium.go/pkg/logger"
)

const (
	apiPrefix      = "/etapi"
	defaultTimeout = 30 * time.Second
)

// Config carries everything needed to reach a Trilium server.
type Config struct {
	// ServerURL is the base address of the server without the /etapi
	// suffix, e.g. "http://localhost:8080".
	ServerURL string
	// Token is an ETAPI token, created in Trilium under Options > ETAPI.
	// It is forwarded unchanged in the Authorization header.
	Token string
	// Password is the Trilium login password. A client configured with a
	// password instead of a token must call Login before anything else.
	Password string
	// HTTPClient overrides the underlying HTTP client. Timeout is ignored
	// when this is set.
	HTTPClient *http.Client
	// Timeout bounds each request when no HTTPClient is given. Zero means
	// 30 seconds.
	Timeout time.Duration
	// Logger receives request traces at debug level and failures at error
	// level. Nil means no logging.
	Logger logger.Logger
}

// Validate validates the client configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ServerURL, validation.Required.Error(ErrNoServerURL.Error())),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Token == "" && c.Password == "" {
		return ErrNoCredential
	}
	return nil
}

// Client talks to a single Trilium server over ETAPI.
//
// Client is safe for concurrent use by multiple goroutines. Its only
// mutable state is the auth token, which Login and Logout swap under a
// lock.
type Client struct {
	baseURL    string
	httpClient *http.Client
	password   string

	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler
	log         logger.Logger

	mu    sync.RWMutex
	token string
}

// New builds a Client from cfg. It performs no I/O; reachability can be
// checked afterwards with Ping.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop{}
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.ServerURL, "/"),
		httpClient:  httpClient,
		password:    cfg.Password,
		marshaler:   codec.JSON{},
		unmarshaler: codec.JSON{},
		log:         log,
		token:       cfg.Token,
	}, nil
}

// Token returns the token the client currently authenticates with. Empty
// until Login when the client was configured with a password only.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Ping checks that the server is reachable and the credential is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetAppInfo(ctx)
	return err
}

// Request issues method against path (relative to /etapi) with an optional
// JSON body and returns the raw response payload. It is the escape hatch
// for endpoints without a typed wrapper.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := c.marshaler.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, nil, "application/json", reader)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return json.RawMessage(data), nil
}

// do runs one JSON round trip: body in (may be nil), decoded payload out
// (out may be nil for 204-style endpoints).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := c.marshaler.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, query, "application/json", reader)
	if err != nil {
		return err
	}

	return c.decodeResponse(resp, out)
}

// doRequest performs an HTTP request with proper headers. The caller owns
// the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("etapi request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("etapi: %s %s: %w", method, path, err)
	}

	c.log.Debug("etapi request finished",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return resp, nil
}

// decodeResponse decodes the JSON response into out and closes the body.
func (c *Client) decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := c.unmarshaler.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkStatus turns a 4xx/5xx response into an *APIError. ETAPI error
// bodies carry {status, code, message}; anything else is preserved
// verbatim in the message.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := c.unmarshaler.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}

	c.log.Error("etapi error response",
		"status", apiErr.StatusCode,
		"code", apiErr.Code,
		"message", apiErr.Message,
	)

	return apiErr
}
