package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reelResponse = `{
  "data": {
    "xdt_shortcode_media": {
      "is_video": true,
      "video_url": "https://cdn.example.com/reel.mp4",
      "display_url": "https://cdn.example.com/reel.jpg",
      "dimensions": {"height": 1920, "width": 1080},
      "video_view_count": 1234,
      "owner": {"username": "sunny", "full_name": "Sunny Day", "is_verified": true, "is_private": false},
      "is_ad": false,
      "edge_media_preview_like": {"count": 42},
      "edge_media_to_caption": {"edges": [{"node": {"text": "Nice day #sun #fun"}}]}
    }
  },
  "status": "ok"
}`

func newFakeInstagram(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123"})
			w.WriteHeader(http.StatusOK)
		case "/graphql/query":
			if check != nil {
				check(r)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
}

func testClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		DocID:     "doc-1",
		AppID:     "app-1",
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	})
}

func TestShortcode(t *testing.T) {
	cases := map[string]string{
		"https://www.instagram.com/reel/C1a2b3/":           "C1a2b3",
		"https://www.instagram.com/reels/C1a2b3/?igsh=xyz": "C1a2b3",
		"https://www.instagram.com/p/Zz9/":                 "Zz9",
		"https://www.instagram.com/someone/reel/Abc/":      "Abc",
		"https://www.instagram.com/tv/Tv1":                 "Tv1",
		"https://www.instagram.com/someone/":               "",
		"https://www.instagram.com/reel/":                  "",
		"::not a url":                                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Shortcode(in), in)
	}
}

func TestClientFetch_Reel(t *testing.T) {
	srv := newFakeInstagram(t, reelResponse, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok123", r.Header.Get("X-CSRFToken"))
		assert.Equal(t, "app-1", r.Header.Get("X-IG-App-ID"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "doc-1", r.PostForm.Get("doc_id"))

		var vars map[string]any
		assert.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("variables")), &vars))
		assert.Equal(t, "C1a2b3", vars["shortcode"])
	})
	defer srv.Close()

	post, err := testClient(srv.URL).Fetch(context.Background(), "https://www.instagram.com/reel/C1a2b3/")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/reel.mp4"}, post.URLList)
	assert.Equal(t, "sunny", post.PostInfo.OwnerUsername)
	assert.Equal(t, "Sunny Day", post.PostInfo.OwnerFullname)
	assert.Equal(t, 42, post.PostInfo.Likes)
	assert.Equal(t, "Nice day #sun #fun", post.PostInfo.Caption)
	require.Len(t, post.MediaDetails, 1)
	assert.Equal(t, "video", post.MediaDetails[0].Type)
	assert.Equal(t, "https://cdn.example.com/reel.jpg", post.MediaDetails[0].Thumbnail)
	assert.Equal(t, 1234, post.MediaDetails[0].ViewCount)
}

func TestClientFetch_Sidecar(t *testing.T) {
	body := `{"data":{"xdt_shortcode_media":{
	  "is_video": false,
	  "display_url": "https://cdn.example.com/cover.jpg",
	  "owner": {"username": "carousel"},
	  "edge_media_to_caption": {"edges": []},
	  "edge_sidecar_to_children": {"edges": [
	    {"node": {"is_video": false, "display_url": "https://cdn.example.com/1.jpg"}},
	    {"node": {"is_video": true, "video_url": "https://cdn.example.com/2.mp4", "display_url": "https://cdn.example.com/2.jpg"}}
	  ]}
	}}}`
	srv := newFakeInstagram(t, body, nil)
	defer srv.Close()

	post, err := testClient(srv.URL).Fetch(context.Background(), "https://www.instagram.com/p/Side1/")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.mp4"}, post.URLList)
	require.Len(t, post.MediaDetails, 2)
	assert.Equal(t, "image", post.MediaDetails[0].Type)
	assert.Equal(t, "video", post.MediaDetails[1].Type)
	assert.Empty(t, post.PostInfo.Caption)
}

func TestClientFetch_NotFound(t *testing.T) {
	srv := newFakeInstagram(t, `{"data":{"xdt_shortcode_media":null},"status":"ok"}`, nil)
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "https://www.instagram.com/reel/Gone/")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientFetch_NoShortcode(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").Fetch(context.Background(), "https://www.instagram.com/someone/")
	assert.ErrorIs(t, err, ErrNoShortcode)
}

func TestClientFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "https://www.instagram.com/reel/X1/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClientFetch_MissingCSRF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "https://www.instagram.com/reel/X1/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csrf")
}
