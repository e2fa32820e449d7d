package github

import (
	stderrors "errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v80/github"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/regex"
)

// temporaryError marks failures worth another attempt (502/503/504 and transport errors).
type temporaryError struct {
	err error
}

func (e *temporaryError) Error() string { return e.err.Error() }
func (e *temporaryError) Unwrap() error { return e.err }

func isTemporary(err error) bool {
	var t *temporaryError
	return stderrors.As(err, &t)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isTransportError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	return stderrors.As(err, &netErr) || stderrors.As(err, &urlErr)
}

// classifyREST maps a go-github error to a domain error, wrapping retryable
// failures in temporaryError.
func classifyREST(err error, resp *github.Response, repository string) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if stderrors.As(err, &rateErr) || stderrors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("repository", repository)
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	switch {
	case status == http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.WithError(err)
	case status == http.StatusForbidden && isRateLimitResponse(err, resp):
		return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("repository", repository)
	case status == http.StatusNotFound:
		return domainErrors.ErrRepositoryNotFound.WithContext("repository", repository)
	case isRetryableStatus(status):
		return &temporaryError{err: err}
	case status == 0 && isTransportError(err):
		return &temporaryError{err: err}
	}
	return domainErrors.ErrGitHubRequest.WithError(err).WithContext("repository", repository)
}

func isRateLimitResponse(err error, resp *github.Response) bool {
	if resp != nil && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	var errResp *github.ErrorResponse
	if stderrors.As(err, &errResp) {
		return strings.Contains(strings.ToLower(errResp.Message), "rate")
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate")
}

// classifyGraphQL maps a githubv4 error. Transport failures surface as
// "non-200 OK status code: NNN ..." and GraphQL errors as their message.
func classifyGraphQL(err error, repository string) error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	if m := regex.GraphQLStatus.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		switch {
		case status == http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.WithError(err)
		case status == http.StatusForbidden && strings.Contains(lower, "rate"):
			return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("repository", repository)
		case status == http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.WithContext("repository", repository)
		case isRetryableStatus(status):
			return &temporaryError{err: err}
		}
		return domainErrors.ErrGitHubRequest.WithError(err).WithContext("repository", repository)
	}

	switch {
	case strings.Contains(lower, "rate limit"):
		return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("repository", repository)
	case strings.Contains(lower, "not found"), strings.Contains(lower, "could not resolve"):
		return domainErrors.ErrRepositoryNotFound.WithContext("repository", repository)
	case isTransportError(err):
		return &temporaryError{err: err}
	}
	return domainErrors.ErrGitHubRequest.WithError(err).WithContext("repository", repository)
}

// isUserError reports failures caused by the caller rather than by us.
func isUserError(err error) bool {
	return stderrors.Is(err, domainErrors.ErrRepositoryNotFound) ||
		stderrors.Is(err, domainErrors.ErrPRNotFound) ||
		stderrors.Is(err, domainErrors.ErrGitHubRateLimit) ||
		stderrors.Is(err, domainErrors.ErrGitHubTokenInvalid)
}
