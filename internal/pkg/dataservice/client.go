package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const maxResponseBytes = 32 << 20

// Client talks to the remote HR data service. It implements both
// leave.LeaveRepository and report.ReportRepository.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds the outbound HTTP client. Bearer tokens come from the
// client credentials flow when configured, else from the static token. ctx
// is used for token fetches.
func NewClient(ctx context.Context, cfg config.DataServiceConfig) *Client {
	var httpClient *http.Client
	switch {
	case cfg.UsesClientCredentials():
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(ctx)
	case cfg.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	default:
		httpClient = &http.Client{}
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &requestIDTransport{base: base}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    httpClient,
	}
}

// envelope is the response body shared by every data service endpoint.
type envelope struct {
	Success      *bool           `json:"success"`
	Message      string          `json:"message"`
	Error        json.RawMessage `json:"error"`
	Leaves       json.RawMessage `json:"leaves"`
	DeletedCount int             `json:"deletedCount"`
	Report       json.RawMessage `json:"report"`
}

// message prefers "message" and falls back to a string "error" field.
func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (envelope, error) {
	var env envelope

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return env, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return env, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		return env, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return env, fmt.Errorf("failed to read response: %w", err)
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, &StatusError{Code: resp.StatusCode, Message: env.message()}
	}
	if decodeErr != nil {
		return env, fmt.Errorf("failed to decode %s %s response: %w", method, path, decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return env, &StatusError{Code: resp.StatusCode, Message: env.message()}
	}
	return env, nil
}

// requestIDTransport tags every outbound call with X-Request-ID, reusing the
// inbound request id when there is one.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("X-Request-ID") == "" {
		id := middleware.GetReqID(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", id)
	}
	return t.base.RoundTrip(req)
}
