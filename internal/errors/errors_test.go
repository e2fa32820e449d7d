package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrGitHubRequest.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeVCS {
		t.Errorf("Expected type %s, got %s", TypeVCS, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrInvalidRepository.WithContext("input", "foo").WithContext("detail", "missing slash")

	if appErr.Context["input"] != "foo" {
		t.Errorf("Expected input context 'foo', got %v", appErr.Context["input"])
	}

	if appErr.Context["detail"] != "missing slash" {
		t.Errorf("Expected detail context 'missing slash', got %v", appErr.Context["detail"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "Simple error without underlying error",
			err:      ErrTokenMissing,
			contains: []string{"CONFIGURATION", "GitHub token is missing"},
		},
		{
			name:     "Error with underlying error",
			err:      ErrCacheRead.WithError(errors.New("disk I/O error")),
			contains: []string{"CACHE", "failed to read cache", "disk I/O error"},
		},
		{
			name: "Error with detail context",
			err: ErrRepositoryNotFound.WithError(errors.New("404")).
				WithContext("repository", "acme/missing").
				WithContext("detail", "Could not resolve to a Repository"),
			contains: []string{"VCS", "repository not found", "404", "Could not resolve to a Repository"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errMsg, substr) {
					t.Errorf("Expected error message to contain %q, got: %s", substr, errMsg)
				}
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := ErrCacheWrite.WithError(baseErr)

	unwrapped := appErr.Unwrap()
	if unwrapped != baseErr {
		t.Errorf("Expected unwrapped error to be %v, got %v", baseErr, unwrapped)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should work with AppError")
	}
}

func TestAppError_Is(t *testing.T) {
	derived := ErrGitHubRateLimit.WithError(errors.New("403")).WithContext("reset", "10m")
	wrapped := fmt.Errorf("listing pull requests: %w", derived)

	if !errors.Is(wrapped, ErrGitHubRateLimit) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(wrapped, ErrRepositoryNotFound) {
		t.Error("derived error should not match a different sentinel")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) || appErr.Suggestion == "" {
		t.Error("errors.As should expose the suggestion")
	}
}

func TestAppError_ChainedContext(t *testing.T) {
	appErr := ErrPRNotFound.
		WithError(errors.New("not found")).
		WithContext("number", 42).
		WithContext("repository", "acme/widgets")

	if appErr.Context["number"] != 42 {
		t.Errorf("Expected number context, got %v", appErr.Context["number"])
	}

	if appErr.Context["repository"] != "acme/widgets" {
		t.Errorf("Expected repository context, got %v", appErr.Context["repository"])
	}

	if ErrPRNotFound.Context != nil {
		t.Error("Original error should not have context")
	}
}
