package clarizen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the connection settings for the Clarizen-style PPM tenant.
type Config struct {
	BaseURL  string
	Username string
	Password string

	// Timeout bounds each remote call. Zero means the default of 60s; the
	// remote is known to be slow on unfiltered table scans.
	Timeout time.Duration
}

// Session is the opaque token returned by the login endpoint. It is attached
// to every outbound call and is read-only shared state for the duration of a
// reconciliation pass. Expiry tracking is out of scope; a stale session
// surfaces as a generic request error.
type Session struct {
	Token string
}

// TraceSink receives a copy of every remote response body for offline
// debugging. Implementations must swallow their own write failures.
type TraceSink interface {
	Append(label string, body []byte)
}

// Client talks to the PPM API: session login, generic entity GETs and CZQL
// queries. Every response body, including error bodies, is handed to the
// trace sink before the call returns.
type Client struct {
	cfg        Config
	httpClient *http.Client
	trace      TraceSink
}

// NewClient creates a Client. trace may be nil, in which case responses are
// not recorded.
func NewClient(cfg Config, trace TraceSink) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		trace:      trace,
	}
}

// Authenticate performs the session login. The response shape is only
// empirically known; the token has been observed under more than one field
// name across tenants.
func (c *Client) Authenticate(ctx context.Context) (Session, error) {
	payload, _ := json.Marshal(map[string]string{
		"userName": c.cfg.Username,
		"password": c.cfg.Password,
	})

	loginURL := fmt.Sprintf("%s/API/authentication/login", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req, "login")
	if err != nil {
		return Session{}, &AuthError{Reason: err.Error()}
	}
	if status != http.StatusOK {
		return Session{}, &AuthError{Reason: fmt.Sprintf("login endpoint returned status %d", status)}
	}

	var result RawEntity
	if err := json.Unmarshal(body, &result); err != nil {
		return Session{}, &AuthError{Reason: fmt.Sprintf("undecodable login response: %v", err)}
	}

	token := FirstString(result,
		[]string{"sessionId"},
		[]string{"SessionId"},
		[]string{"session", "id"},
	)
	if token == "" {
		return Session{}, &AuthError{Reason: "login response carries no session token"}
	}

	log.Info().Msg("PPM session established")
	return Session{Token: token}, nil
}

// Get performs a generic GET against an API path relative to the base URL.
func (c *Client) Get(ctx context.Context, sess Session, path string) (RawEntity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, sess)

	body, status, err := c.do(req, "GET "+path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("PPM API returned status %d for %s", status, path)
	}

	var result RawEntity
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return result, nil
}

// Query executes a CZQL query string and returns the raw entity rows.
func (c *Client) Query(ctx context.Context, sess Session, czql string) ([]RawEntity, error) {
	payload, _ := json.Marshal(map[string]string{"q": czql})

	queryURL := fmt.Sprintf("%s/API/data/query", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, sess)

	log.Debug().Str("czql", czql).Msg("Executing CZQL query")

	body, status, err := c.do(req, "query")
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("PPM query rejected (status %d): session token no longer accepted", status)
	default:
		return nil, fmt.Errorf("PPM query endpoint returned status %d", status)
	}

	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return result.Entities, nil
}

// SessionInfo fetches the "who am I" endpoint for the current session.
func (c *Client) SessionInfo(ctx context.Context, sess Session) (RawEntity, error) {
	return c.Get(ctx, sess, "/API/authentication/getSessionInfo")
}

func (c *Client) authorize(req *http.Request, sess Session) {
	req.Header.Set("Authorization", fmt.Sprintf("Session %s", sess.Token))
}

// do executes the request, records the response body (or the transport error)
// in the trace sink, and returns body and status. Recording happens for
// failures too; that is the whole point of the trace.
func (c *Client) do(req *http.Request, label string) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(label, []byte(fmt.Sprintf("transport error: %v", err)))
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	c.record(label, body)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", readErr)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) record(label string, body []byte) {
	if c.trace == nil {
		return
	}
	c.trace.Append(label, body)
}
