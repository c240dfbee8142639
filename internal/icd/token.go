package icd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resty.dev/v3"
)

// tokenExpiryLeeway refreshes the token slightly before the authority
// expires it, so an in-flight request never carries a token about to lapse.
const tokenExpiryLeeway = time.Minute

// TokenSource owns the single shared ICD API credential. The token is
// acquired lazily through a client-credentials exchange and reused by every
// caller until it nears expiry.
type TokenSource struct {
	httpClient   *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewTokenSource creates a new TokenSource.
func NewTokenSource(tokenURL, clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		httpClient:   resty.New(),
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// AccessToken returns the cached token, exchanging the client credentials for
// a fresh one when none is cached or the cached one nears expiry. The
// exchange runs at most once at a time; concurrent callers wait for it.
func (s *TokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Add(tokenExpiryLeeway).Before(s.expiresAt) {
		return s.token, nil
	}

	response, err := s.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     s.clientID,
			"client_secret": s.clientSecret,
			"scope":         "icdapi_access",
		}).
		SetResult(&tokenResponse{}).
		Post(s.tokenURL)
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("token response error %d: %s", response.StatusCode(), response.String())
	}

	body := response.Result().(*tokenResponse)
	if body.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response: %s", response.String())
	}

	s.token = body.AccessToken
	s.expiresAt = s.now().Add(time.Duration(body.ExpiresIn) * time.Second)
	slog.Default().Debug("obtained ICD access token",
		"expiresIn", body.ExpiresIn,
	)
	return s.token, nil
}

// Close releases the underlying HTTP client.
func (s *TokenSource) Close() error {
	return s.httpClient.Close()
}
