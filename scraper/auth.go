package scraper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTokenURL = "https://www.reddit.com/api/v1/access_token"

// Authenticator obtains and caches an OAuth bearer token for the official
// Reddit API using the client-credentials grant. A returned token always has
// at least 60 seconds of validity left. Concurrent callers during expiry may
// each trigger a refresh; that is idempotent and last-write-wins on the cache.
type Authenticator struct {
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	httpClient   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewAuthenticator(clientID, clientSecret, userAgent string) *Authenticator {
	return &Authenticator{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     defaultTokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns a cached bearer token, refreshing it when fewer than 60
// seconds of validity remain.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return "", &AuthError{Reason: "REDDIT_CLIENT_ID or REDDIT_CLIENT_SECRET not configured"}
	}

	a.mu.Lock()
	if a.token != "" && time.Now().Before(a.expiry) {
		token := a.token
		a.mu.Unlock()
		return token, nil
	}
	a.mu.Unlock()

	return a.refresh(ctx)
}

func (a *Authenticator) refresh(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Reason: err.Error()}
	}

	basic := base64.StdEncoding.EncodeToString([]byte(a.clientID + ":" + a.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &AuthError{Reason: "decode token response: " + err.Error()}
	}
	if parsed.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	a.mu.Lock()
	a.token = parsed.AccessToken
	a.expiry = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - time.Minute)
	a.mu.Unlock()

	return parsed.AccessToken, nil
}

// Configured reports whether client credentials are present at all. The
// official-API strategy is skipped entirely when they are not.
func (a *Authenticator) Configured() bool {
	return a.clientID != "" && a.clientSecret != ""
}
