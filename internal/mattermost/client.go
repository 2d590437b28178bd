package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiPrefix = "/api/v4"

	defaultRequestsPerSecond = 10
	defaultBurst             = 10
)

// Config holds the connection parameters for one Mattermost session.
// Either Token or Username+Password must be set.
type Config struct {
	URL      string // server base URL, e.g. https://chat.example.com (required)
	Token    string // personal access token
	Username string // login id, used when Token is empty
	Password string
}

// Client is the concrete API implementation speaking Mattermost REST v4.
// One Client serves one export job; there is no process-wide session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	loginID  string
	password string
}

var _ API = (*Client)(nil)

// NewClient validates the connection parameters and builds a client. No
// network traffic happens until Login.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mattermost server URL is required")
	}
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, &AuthError{
			Code:    "no_credentials",
			Message: "Either a token or a username and password is required.",
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/") + apiPrefix,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		logger:     logger,
		loginID:    cfg.Username,
		password:   cfg.Password,
	}, nil
}

// Login establishes the session. With a token configured it verifies the
// token against /users/me; otherwise it performs a credential login and
// captures the session token from the response header.
func (c *Client) Login(ctx context.Context) error {
	if c.token != "" {
		if _, err := c.GetMe(ctx); err != nil {
			return err
		}
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"login_id": c.loginID,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := c.statusError(resp)
		if authErr := matchAuthError(err); authErr != nil {
			return authErr
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return &AuthError{Code: "login_failed", Message: "Login was rejected by the server."}
		}
		return err
	}

	c.token = resp.Header.Get("Token")
	if c.token == "" {
		return &AuthError{Code: "no_session_token", Message: "Login succeeded but the server returned no session token."}
	}

	c.logger.Info("Logged in to Mattermost", zap.String("login_id", c.loginID))
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUsers(ctx context.Context, page, perPage int) ([]User, error) {
	var users []User
	path := fmt.Sprintf("/users?page=%d&per_page=%d", page, perPage)
	if err := c.getJSON(ctx, path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/users/"+userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetTeamsForUser(ctx context.Context, userID string) ([]Team, error) {
	var teams []Team
	if err := c.getJSON(ctx, "/users/"+userID+"/teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) GetChannelsForTeamForUser(ctx context.Context, teamID, userID string) ([]Channel, error) {
	var channels []Channel
	path := "/users/" + userID + "/teams/" + teamID + "/channels"
	if err := c.getJSON(ctx, path, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (*Channel, error) {
	var ch Channel
	if err := c.getJSON(ctx, "/channels/"+channelID, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	var t Team
	if err := c.getJSON(ctx, "/teams/"+teamID, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) GetPostsForChannel(ctx context.Context, channelID string, page, perPage int) (*PostList, error) {
	var pl PostList
	path := fmt.Sprintf("/channels/%s/posts?page=%d&per_page=%d", channelID, page, perPage)
	if err := c.getJSON(ctx, path, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

func (c *Client) GetFile(ctx context.Context, fileID string) ([]byte, error) {
	body, err := c.get(ctx, "/files/"+fileID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w: %w", fileID, ErrUnavailable, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get issues a rate-limited GET. Server-side throttling (429) is waited out
// and retried here; every other failure maps onto an error kind and returns.
func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", path, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("GET %s: %w: %w", path, ErrUnavailable, err)
		}

		c.logger.Debug("mattermost request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))

		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		err = c.statusError(resp)
		resp.Body.Close()

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		return nil, err
	}
}

// appError mirrors the error body Mattermost returns for failed requests.
type appError struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// statusError converts a non-200 response into a typed error. The body is
// read but not closed.
func (c *Client) statusError(resp *http.Response) error {
	var appErr appError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &appErr)

	detail := appErr.ID
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if authErr := matchAuthError(fmt.Errorf("%s", detail)); authErr != nil {
			return authErr
		}
		return &AuthError{Code: appErr.ID, Message: appErr.Message}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return fmt.Errorf("server error %d (%s): %w", resp.StatusCode, detail, ErrUnavailable)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}
