package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeInput         ErrorType = "INPUT"
	TypeCache         ErrorType = "CACHE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["detail"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches errors derived from the same sentinel, so errors.Is keeps
// working after WithError, WithContext or WithSuggestion.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Export GITHUB_TOKEN or run: prtriage config set github_token <token>")

	ErrConfigInvalid = NewAppError(TypeConfiguration, "configuration is invalid", nil).
				WithSuggestion("Inspect your configuration: prtriage config show")

	ErrConfigMissing = NewAppError(TypeConfiguration, "configuration is missing", nil).
				WithSuggestion("Initialize configuration: prtriage config init")

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "unknown configuration key", nil).
				WithSuggestion("List the available keys: prtriage config show")

	ErrAppAuth = NewAppError(TypeConfiguration, "GitHub App authentication failed", nil).
			WithSuggestion("Check github_app.app_id, installation_id and the private key path")
)

// Input errors
var (
	ErrInvalidRepository = NewAppError(TypeInput, "invalid repository", nil).
				WithSuggestion("Use owner/repo or https://github.com/owner/repo")

	ErrUnknownWeight = NewAppError(TypeInput, "unknown scoring weight", nil).
				WithSuggestion("Valid weights: lines, files, fileTypes, deps, tests, docs, crossCutting")

	ErrInvalidWeight = NewAppError(TypeInput, "invalid scoring weight", nil).
				WithSuggestion("Weights are written as name=value, for example lines=0.3")

	ErrInvalidPRNumber = NewAppError(TypeInput, "invalid pull request number", nil)

	ErrInvalidSortField = NewAppError(TypeInput, "invalid sort field", nil).
				WithSuggestion("Sort by one of: score, number, additions, deletions, changedFiles, createdAt, updatedAt")
)

// GitHub/VCS specific errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check the repository name and that your token can access it")

	ErrPRNotFound = NewAppError(TypeVCS, "pull request not found", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrGitHubUnavailable = NewAppError(TypeVCS, "GitHub API is unavailable", nil).
				WithSuggestion("Try again in a few minutes: https://www.githubstatus.com")

	ErrGitHubRequest = NewAppError(TypeVCS, "GitHub API request failed", nil)
)

// Cache errors
var (
	ErrCacheRead  = NewAppError(TypeCache, "failed to read cache", nil)
	ErrCacheWrite = NewAppError(TypeCache, "failed to write cache", nil)
	ErrCacheOpen  = NewAppError(TypeCache, "failed to open cache", nil).
			WithSuggestion("Check cache.path or clear it with: prtriage cache clean")
)

// HTTP API errors. Their messages are the response bodies.
var (
	ErrRateLimited = NewAppError(TypeInternal, "Too many requests", nil)
	ErrServer      = NewAppError(TypeInternal, "Internal server error", nil)
)
