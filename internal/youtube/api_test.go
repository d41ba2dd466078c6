package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ytapi "google.golang.org/api/youtube/v3"
)

func newDataAPIServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/videos") {
			http.NotFound(w, r)
			return
		}
		key := r.URL.Query().Get("key")
		if key == "" {
			key = r.Header.Get("X-Goog-Api-Key")
		}
		if key != "test-key" || r.URL.Query().Get("id") != "pQ8ixfi8s4U" {
			http.Error(w, `{"error":{"code":400,"message":"bad request"}}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func newTestAPIFetcher(t *testing.T, endpoint string) *APIFetcher {
	t.Helper()
	f, err := NewAPIFetcher(context.Background(), "test-key", endpoint, 5*time.Second)
	require.NoError(t, err)
	return f
}

func TestAPIFetcher_Fetch(t *testing.T) {
	srv := newDataAPIServer(t, `{"items":[{"id":"pQ8ixfi8s4U","snippet":{
		"title":"Tiny Short","description":"A very short video","channelTitle":"Cat Channel",
		"tags":["cats","shorts"],"categoryId":"15",
		"thumbnails":{"default":{"url":"https://i.ytimg.com/d.jpg"},
		              "medium":{"url":"https://i.ytimg.com/m.jpg"},
		              "high":{"url":"https://i.ytimg.com/h.jpg"}}}}]}`)
	defer srv.Close()

	v, err := newTestAPIFetcher(t, srv.URL+"/").Fetch(context.Background(), "https://youtube.com/shorts/pQ8ixfi8s4U")
	require.NoError(t, err)

	assert.Equal(t, "Tiny Short", v.Title)
	assert.Equal(t, "A very short video", v.Description)
	assert.Equal(t, "Cat Channel", v.Author)
	assert.Equal(t, "15", v.Category)
	assert.Equal(t, CategoryID, v.CategoryKind)
	assert.Equal(t, []string{"cats", "shorts"}, v.Keywords)
	assert.Equal(t, "https://i.ytimg.com/h.jpg", v.Thumbnail)
}

func TestAPIFetcher_NoItems(t *testing.T) {
	srv := newDataAPIServer(t, `{"items":[]}`)
	defer srv.Close()

	_, err := newTestAPIFetcher(t, srv.URL+"/").Fetch(context.Background(), "https://youtu.be/pQ8ixfi8s4U")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPIFetcher_NotConfigured(t *testing.T) {
	f, err := NewAPIFetcher(context.Background(), "", "", time.Second)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "https://youtube.com/shorts/pQ8ixfi8s4U")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAPIFetcher_NoVideoID(t *testing.T) {
	f := newTestAPIFetcher(t, "http://127.0.0.1:1/")
	_, err := f.Fetch(context.Background(), "https://youtube.com/shorts/bad")
	assert.ErrorIs(t, err, ErrNoVideoID)
}

func TestBestThumbnail(t *testing.T) {
	assert.Empty(t, bestThumbnail(nil))

	all := &ytapi.ThumbnailDetails{
		Default:  &ytapi.Thumbnail{Url: "d"},
		Medium:   &ytapi.Thumbnail{Url: "m"},
		High:     &ytapi.Thumbnail{Url: "h"},
		Standard: &ytapi.Thumbnail{Url: "s"},
		Maxres:   &ytapi.Thumbnail{Url: "x"},
	}
	assert.Equal(t, "x", bestThumbnail(all))

	all.Maxres = nil
	assert.Equal(t, "s", bestThumbnail(all))

	assert.Equal(t, "m", bestThumbnail(&ytapi.ThumbnailDetails{
		Default: &ytapi.Thumbnail{Url: "d"},
		Medium:  &ytapi.Thumbnail{Url: "m"},
	}))
}
