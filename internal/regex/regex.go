package regex

import "regexp"

var (
	// Repository identification
	OwnerOrRepo = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,99}$`)
	GitHubURL   = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/]+)/([^/?#]+)(?:[/?#].*)?$`)
	SSHRepo     = regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(?:\.git)?$`)

	// Pull request references such as "#123" or ".../pull/123"
	PRNumber = regexp.MustCompile(`^#?(\d+)$`)
	PRURL    = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/]+)/([^/]+)/pull/(\d+)(?:[/?#].*)?$`)

	// Weight overrides written as name=value
	WeightOverride = regexp.MustCompile(`^\s*([A-Za-z_]+)\s*=\s*([0-9]*\.?[0-9]+)\s*$`)

	// Leading integer of a numeric query value, such as "12" in "12abc"
	LeadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

	// HTTP status embedded in GraphQL transport errors
	GraphQLStatus = regexp.MustCompile(`non-200 OK status code: (\d{3})`)
)
