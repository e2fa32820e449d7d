package services

import (
	"strconv"
	"strings"

	"github.com/thomas-vilte/prtriage/internal/config"
	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/regex"
)

// MaxRepositoryLength bounds "owner/repo".
const MaxRepositoryLength = 256

// ParseRepository accepts "owner/repo", a github.com URL or an SSH remote.
func ParseRepository(input string) (owner, repo string, err error) {
	s := strings.TrimSpace(input)

	switch {
	case regex.GitHubURL.MatchString(s):
		m := regex.GitHubURL.FindStringSubmatch(s)
		owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
	case regex.SSHRepo.MatchString(s):
		m := regex.SSHRepo.FindStringSubmatch(s)
		owner, repo = m[1], m[2]
	default:
		parts := strings.Split(s, "/")
		if len(parts) != 2 {
			return "", "", domainErrors.ErrInvalidRepository.WithContext("detail", "expected owner/repo, got "+strconv.Quote(input))
		}
		owner, repo = parts[0], parts[1]
	}

	return ValidateRepository(owner, repo)
}

// ValidateRepository checks owner and repo against GitHub's naming rules.
func ValidateRepository(owner, repo string) (string, string, error) {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if !regex.OwnerOrRepo.MatchString(owner) || !regex.OwnerOrRepo.MatchString(repo) {
		return "", "", domainErrors.ErrInvalidRepository.WithContext("detail", "invalid owner or repo format")
	}
	if len(owner)+1+len(repo) > MaxRepositoryLength {
		return "", "", domainErrors.ErrInvalidRepository.WithContext("detail", "repository name too long")
	}
	return owner, repo, nil
}

// ClampLimit bounds n to [config.MinLimit, config.MaxLimit].
func ClampLimit(n int) int {
	if n < config.MinLimit {
		return config.MinLimit
	}
	if n > config.MaxLimit {
		return config.MaxLimit
	}
	return n
}

// ParseLimit reads the leading integer of a limit value, so "12abc" is 12.
// Input without one yields the default.
func ParseLimit(s string) int {
	m := regex.LeadingInt.FindStringSubmatch(s)
	if m == nil {
		return config.DefaultLimit
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		if strings.HasPrefix(m[1], "-") {
			return config.MinLimit
		}
		return config.MaxLimit
	}
	return ClampLimit(n)
}

// ParsePRNumber accepts "123", "#123" or a pull request URL.
func ParsePRNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	var digits string
	if m := regex.PRNumber.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else if m := regex.PRURL.FindStringSubmatch(s); m != nil {
		digits = m[3]
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, domainErrors.ErrInvalidPRNumber.WithContext("detail", strconv.Quote(s))
	}
	return n, nil
}
