package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zwin-ux/RedditScraper-sub000/enums"
)

func TestPublicJSON_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		require.NotEmpty(t, r.Header.Get("Accept-Language"))
		fmt.Fprint(w, listingFixture)
	}))
	defer server.Close()

	s := NewPublicJSON(nil)
	s.baseURL = server.URL
	s.throttle = NewThrottle(0)

	posts, err := s.Fetch(context.Background(), Options{Subreddit: "datascience"}.WithDefaults())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, enums.SourcePublicJSON, posts[0].Source)
}

func TestPublicJSON_FallsThroughVariants(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, listingFixture)
	}))
	defer server.Close()

	s := NewPublicJSON(nil)
	s.baseURL = server.URL
	s.throttle = NewThrottle(0)

	posts, err := s.Fetch(context.Background(), Options{Subreddit: "datascience"}.WithDefaults())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestPublicJSON_AllVariantsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"children":[]}}`)
	}))
	defer server.Close()

	s := NewPublicJSON(nil)
	s.baseURL = server.URL
	s.throttle = NewThrottle(0)

	posts, err := s.Fetch(context.Background(), Options{Subreddit: "emptyplace"}.WithDefaults())
	assert.NoError(t, err, "an empty subreddit is not an error")
	assert.Empty(t, posts)
}

func TestPublicJSON_AllVariantsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Blocked")
	}))
	defer server.Close()

	s := NewPublicJSON(nil)
	s.baseURL = server.URL
	s.throttle = NewThrottle(0)

	_, err := s.Fetch(context.Background(), Options{Subreddit: "datascience"}.WithDefaults())
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
}

func TestArchive_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/posts/search", r.URL.Path)
		require.Equal(t, "datascience", r.URL.Query().Get("subreddit"))
		require.Equal(t, "desc", r.URL.Query().Get("sort"))
		require.NotEmpty(t, r.URL.Query().Get("after"))
		fmt.Fprint(w, `{"data":[
			{"id":"arc1","subreddit":"datascience","author":"alice","title":"Archived","score":50,"num_comments":9,"created_utc":1600000000},
			{"id":"arc2","subreddit":"datascience","author":"[deleted]","title":"Gone","score":5}
		]}`)
	}))
	defer server.Close()

	s := NewArchive()
	s.baseURL = server.URL
	s.throttle = NewThrottle(0)

	posts, err := s.Fetch(context.Background(), Options{Subreddit: "datascience"}.WithDefaults())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "arc1", posts[0].ID)
	assert.True(t, posts[0].Archived)
	assert.Equal(t, enums.SourceArcticShift, posts[0].Source)
}

func TestTimeframeWindow(t *testing.T) {
	assert.Equal(t, time.Hour, timeframeWindow("hour"))
	assert.Equal(t, 7*24*time.Hour, timeframeWindow("week"))
	assert.Greater(t, timeframeWindow("all"), timeframeWindow("year"))
}
