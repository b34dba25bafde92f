package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client is the one-shot HTTP side of the backend: login plus the snapshot
// fetches used to hydrate a view before live channel pushes arrive.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	log *zap.Logger
}

// New creates a client for the given backend base URL.
func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.Token = token
}

// Login exchanges credentials for a token and the user's display name.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	resp, err := c.postJSON("/api/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	c.Token = result.Token
	return &result, nil
}

// FetchConversation retrieves the stored transcript and active task for an
// identity. A 404 (no conversation yet) yields an empty snapshot, not an
// error: a brand-new user simply has nothing to show.
func (c *Client) FetchConversation(email string) (*ConversationSnapshot, error) {
	resp, err := c.get("/api/conversation/" + url.PathEscape(email))
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		c.log.Debug("no stored conversation", zap.String("email", email))
		return &ConversationSnapshot{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var snap ConversationSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &snap, nil
}

// FetchTask retrieves only the active task description. Used by the task
// view when it was entered without a handoff (deep link, reload). A 404
// yields an empty task.
func (c *Client) FetchTask(email string) (string, error) {
	resp, err := c.get("/api/task/" + url.PathEscape(email))
	if err != nil {
		return "", fmt.Errorf("fetch task: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}
	var snap TaskSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return "", fmt.Errorf("decode task: %w", err)
	}
	return snap.Task, nil
}

// FetchReports retrieves completed journal tasks and the latest session
// report for the progress dashboard.
func (c *Client) FetchReports(email string) (*ReportsResponse, error) {
	resp, err := c.get("/api/reports/" + url.PathEscape(email))
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return &ReportsResponse{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result ReportsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return &result, nil
}

func (c *Client) get(path string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.HTTPClient.Do(req)
}

func (c *Client) postJSON(path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("API %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("API %d: %s", resp.StatusCode, string(body))
}
