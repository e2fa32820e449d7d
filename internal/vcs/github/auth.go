package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
)

// GitHub rejects app JWTs that live longer than ten minutes.
const (
	jwtLifetime       = 10 * time.Minute
	jwtClockSkew      = 30 * time.Second
	tokenExpiryMargin = 5 * time.Minute
)

// AppCredentials identify a GitHub App installation.
type AppCredentials struct {
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
}

// LoadAppCredentials reads the PEM key at keyPath.
func LoadAppCredentials(appID, installationID int64, keyPath string) (*AppCredentials, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, domainErrors.ErrAppAuth.WithError(err).WithContext("private_key_path", keyPath)
	}
	return &AppCredentials{AppID: appID, InstallationID: installationID, PrivateKey: key}, nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the private key")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return rsaKey, nil
}

// generateJWT signs the RS256 token used to request installation tokens.
func generateJWT(appID int64, key *rsa.PrivateKey, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iat": now.Add(-jwtClockSkew).Unix(),
		"exp": now.Add(jwtLifetime).Unix(),
		"iss": strconv.FormatInt(appID, 10),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// appTokenSource exchanges an app JWT for an installation access token.
type appTokenSource struct {
	ctx   context.Context
	creds *AppCredentials
	key   *rsa.PrivateKey
	base  http.RoundTripper
	api   string
	now   func() time.Time
}

func (s *appTokenSource) Token() (*oauth2.Token, error) {
	signed, err := generateJWT(s.creds.AppID, s.key, s.now())
	if err != nil {
		return nil, domainErrors.ErrAppAuth.WithError(err)
	}

	jwtClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: signed}),
			Base:   s.base,
		},
		Timeout: defaultHTTPTimeout,
	}
	client, err := newRESTClient(jwtClient, s.api)
	if err != nil {
		return nil, domainErrors.ErrAppAuth.WithError(err)
	}

	token, _, err := client.Apps.CreateInstallationToken(s.ctx, s.creds.InstallationID, nil)
	if err != nil {
		return nil, domainErrors.ErrAppAuth.WithError(err).WithContext("installation_id", s.creds.InstallationID)
	}
	if token.GetToken() == "" {
		return nil, domainErrors.ErrAppAuth.WithContext("detail", "received empty installation token")
	}

	return &oauth2.Token{
		AccessToken: token.GetToken(),
		Expiry:      token.GetExpiresAt().Add(-tokenExpiryMargin),
	}, nil
}

// NewAppTokenSource returns a cached token source that refreshes the
// installation token shortly before it expires.
func NewAppTokenSource(ctx context.Context, creds *AppCredentials, apiURL string, base http.RoundTripper) (oauth2.TokenSource, error) {
	key, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, domainErrors.ErrAppAuth.WithError(err)
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return oauth2.ReuseTokenSource(nil, &appTokenSource{
		ctx:   ctx,
		creds: creds,
		key:   key,
		base:  base,
		api:   apiURL,
		now:   time.Now,
	}), nil
}
