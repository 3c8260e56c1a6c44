// Package jira is the read-only issue-tracker adapter. The logbook UI uses
// it to resolve issue references attached to entry items into live status
// pills; nothing here writes to the tracker.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the connection settings for the issue tracker.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
}

// Client talks to the tracker's REST API with basic auth.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new tracker client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchIssues runs a JQL search and returns matching issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]Issue, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("fields", "summary,status,assignee,updated")

	searchURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.cfg.BaseURL, params.Encode())
	log.Debug().Str("jql", jql).Msg("Searching tracker issues")

	var result searchResponse
	if err := c.getJSON(ctx, searchURL, &result); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(result.Issues))
	for _, dto := range result.Issues {
		issues = append(issues, mapIssue(dto))
	}
	return issues, nil
}

// GetIssue fetches a single issue by key.
func (c *Client) GetIssue(ctx context.Context, key string) (Issue, error) {
	issueURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=summary,status,assignee,updated", c.cfg.BaseURL, url.PathEscape(key))

	var dto issueDTO
	if err := c.getJSON(ctx, issueURL, &dto); err != nil {
		return Issue{}, err
	}
	return mapIssue(dto), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("tracker resource not found")
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("tracker authentication failed (%d), check email/API token", resp.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("tracker rate limit exceeded (429)")
		default:
			return fmt.Errorf("tracker API returned status %d", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return nil
}
