package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
		require.Equal(t, expected, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok_%d","token_type":"bearer","expires_in":3600}`,
			atomic.LoadInt32(hits))
	}))
}

func TestAuthenticator_CachesToken(t *testing.T) {
	var hits int32
	server := newTokenServer(t, &hits)
	defer server.Close()

	auth := NewAuthenticator("id", "secret", "test-agent")
	auth.tokenURL = server.URL

	ctx := context.Background()
	first, err := auth.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok_1", first)

	second, err := auth.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "cached token must not refetch")
}

func TestAuthenticator_RefreshesNearExpiry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		// expires_in below the 60s safety margin, so the token is already
		// considered stale when cached.
		fmt.Fprint(w, `{"access_token":"shortlived","expires_in":30}`)
	}))
	defer server.Close()

	auth := NewAuthenticator("id", "secret", "test-agent")
	auth.tokenURL = server.URL

	ctx := context.Background()
	_, err := auth.Token(ctx)
	require.NoError(t, err)
	_, err = auth.Token(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestAuthenticator_MissingCredentials(t *testing.T) {
	auth := NewAuthenticator("", "", "test-agent")
	assert.False(t, auth.Configured())

	_, err := auth.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Reason, "not configured")
}

func TestAuthenticator_UpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Unauthorized","error":401}`)
	}))
	defer server.Close()

	auth := NewAuthenticator("id", "wrong", "test-agent")
	auth.tokenURL = server.URL

	_, err := auth.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, authErr.Body, "Unauthorized")
}

func TestAuthenticator_EmptyTokenResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"","expires_in":3600}`)
	}))
	defer server.Close()

	auth := NewAuthenticator("id", "secret", "test-agent")
	auth.tokenURL = server.URL

	_, err := auth.Token(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}
