package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/internal/httpclient"
)

func snapshotServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tags.json":
			w.Write([]byte(jsonSnapshot))
		case "/api/tags":
			w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
			w.Write([]byte(yamlSnapshot))
		case "/opaque":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte(jsonSnapshot))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetch(t *testing.T) {
	ts := snapshotServer(t)
	client := httpclient.New(httpclient.Options{AllowPrivate: true})

	f, err := Fetch(context.Background(), client, ts.URL+"/tags.json", 1<<20)
	require.NoError(t, err)
	assert.Len(t, f.Tags, 2)
	assert.Equal(t, "go", f.Selected)

	f, err = Fetch(context.Background(), client, ts.URL+"/api/tags", 1<<20)
	require.NoError(t, err, "format from Content-Type")
	assert.Len(t, f.Relations, 1)
}

func TestFetchErrors(t *testing.T) {
	ts := snapshotServer(t)
	client := httpclient.New(httpclient.Options{AllowPrivate: true})
	ctx := context.Background()

	_, err := Fetch(ctx, client, ts.URL+"/missing.json", 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = Fetch(ctx, client, ts.URL+"/opaque", 1<<20)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	_, err = Fetch(ctx, client, ts.URL+"/tags.json", 64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 64 bytes")

	_, err = Fetch(ctx, httpclient.New(httpclient.Options{}), ts.URL+"/tags.json", 1<<20)
	assert.True(t, errors.Is(err, httpclient.ErrBlocked), "loopback is refused by default")
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/tags.json"))
	assert.True(t, IsRemote("HTTP://example.com/tags.json"))
	assert.False(t, IsRemote("tags.json"))
	assert.False(t, IsRemote("/srv/http/tags.yaml"))
}
