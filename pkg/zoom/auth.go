package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
)

// expiryMargin is subtracted from the provider-reported token lifetime so
// the cached token is refreshed before it actually expires.
const expiryMargin = 60 * time.Second

// accountTokenSource fetches server-to-server OAuth tokens using the
// account_credentials grant. It is wrapped in oauth2.ReuseTokenSource,
// which caches the token and serializes concurrent refreshes behind a
// single lock.
type accountTokenSource struct {
	cfg    *config.ZoomConfig
	client *http.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Token requests a fresh access token from the OAuth endpoint.
func (s *accountTokenSource) Token() (*oauth2.Token, error) {
	if s.cfg.AccountID == "" || s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("zoom oauth credentials not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s",
		s.cfg.OAuthURL, url.QueryEscape(s.cfg.AccountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(""))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("oauth token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("oauth token endpoint returned empty token")
	}

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		Expiry:      time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - expiryMargin),
	}, nil
}

// NewTokenSource returns a cached, auto-refreshing token source for
// provider REST calls.
func NewTokenSource(cfg *config.ZoomConfig) oauth2.TokenSource {
	src := &accountTokenSource{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
	return oauth2.ReuseTokenSource(nil, src)
}
