package mattermost

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sentinel error kinds the client maps HTTP failures onto. Callers branch
// with errors.Is.
var (
	// ErrNotFound marks a missing user, channel, team or file.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a transient network or server failure that may
	// succeed on retry.
	ErrUnavailable = errors.New("unavailable")
)

// authErrorIDs are Mattermost API error ids that indicate authentication problems
var authErrorIDs = map[string]string{
	"api.context.session_expired.app_error":                 "The session has expired. Please log in again or refresh the access token.",
	"api.context.invalid_token.app_error":                   "The access token is invalid. Please generate a new personal access token.",
	"api.context.token_provided.app_error":                  "The token was rejected by the server. Please check MATTERMOST_TOKEN.",
	"api.user.login.invalid_credentials_email_username":     "Login failed: the username or password is incorrect.",
	"api.user.check_user_login_attempts.too_many.app_error": "The account is locked after too many failed login attempts.",
	"api.context.permissions.app_error":                     "The authenticated user lacks permission for this resource.",
}

// AuthError represents a Mattermost authentication failure with guidance
// for resolution. It aborts the whole export job.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("mattermost authentication error: %s (code: %s)", e.Message, e.Code)
}

// RateLimitError is returned when the server responds 429; RetryAfter is
// taken from the Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// matchAuthError checks if an error contains a known auth error id.
// Returns nil if no auth error is found.
func matchAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	for id, message := range authErrorIDs {
		if strings.Contains(errStr, id) {
			return &AuthError{Code: id, Message: message}
		}
	}
	return nil
}

// WrapError checks for auth errors and returns an enhanced error with logging.
// It is called at the API boundary (HTTP and MCP layers) so callers see a
// clear message instead of a raw server error id.
func WrapError(logger *zap.Logger, operation string, err error) error {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return err
	}

	if authErr := matchAuthError(err); authErr != nil {
		logger.Error("Mattermost authentication failed",
			zap.String("operation", operation),
			zap.String("guidance", authErr.Message),
			zap.Error(err))
		return authErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
