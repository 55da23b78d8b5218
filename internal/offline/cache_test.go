package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testManifest = []string{"/", "/index.html", "/app.js"}

// newTestOrigin serves a minimal shell keyed by path.
func newTestOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/index.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>shell</html>"))
		case "/app.js":
			w.Header().Set("Content-Type", "text/javascript")
			w.Write([]byte("console.log('app')"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCache(t *testing.T, version string) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "offline.db"), version, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestOpenCacheBadPath(t *testing.T) {
	t.Parallel()
	_, err := OpenCache(filepath.Join(t.TempDir(), "no", "such", "dir", "offline.db"), "v1", nil)
	assert.ErrorIs(t, err, ErrCacheInit)
}

func TestInstallCachesFullManifest(t *testing.T) {
	t.Parallel()
	origin := newTestOrigin(t)
	cache := newTestCache(t, "v1")
	ctx := context.Background()

	installed, err := cache.Installed()
	require.NoError(t, err)
	assert.False(t, installed)

	require.NoError(t, cache.Install(ctx, origin.Client(), origin.URL, testManifest))

	installed, err = cache.Installed()
	require.NoError(t, err)
	assert.True(t, installed)

	// Every asset serves from the cache with the origin gone.
	origin.Close()
	for _, path := range testManifest {
		asset, err := cache.Get(path)
		require.NoError(t, err, "asset %s", path)
		assert.Equal(t, http.StatusOK, asset.Status)
		assert.NotEmpty(t, asset.Body)
	}

	// A reinstall of the same version is a no-op.
	require.NoError(t, cache.Install(ctx, origin.Client(), origin.URL, testManifest))
}

func TestInstallIsAllOrNothing(t *testing.T) {
	t.Parallel()
	origin := newTestOrigin(t)
	cache := newTestCache(t, "v1")

	manifest := append([]string{"/missing.css"}, testManifest...)
	err := cache.Install(context.Background(), origin.Client(), origin.URL, manifest)
	require.ErrorIs(t, err, ErrInstallFailed)

	// The failed install left nothing behind, not even the good assets.
	installed, err := cache.Installed()
	require.NoError(t, err)
	assert.False(t, installed)
	_, err = cache.Get("/index.html")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestActivateEvictsOtherVersions(t *testing.T) {
	t.Parallel()
	origin := newTestOrigin(t)
	path := filepath.Join(t.TempDir(), "offline.db")
	ctx := context.Background()

	v1, err := OpenCache(path, "v1", nil)
	require.NoError(t, err)
	require.NoError(t, v1.Install(ctx, origin.Client(), origin.URL, testManifest))
	require.NoError(t, v1.Close())

	v2, err := OpenCache(path, "v2", nil)
	require.NoError(t, err)
	require.NoError(t, v2.Install(ctx, origin.Client(), origin.URL, testManifest))
	require.NoError(t, v2.Activate())
	require.NoError(t, v2.Close())

	// Reopening under v1 finds its bucket gone while v2 survives.
	v1, err = OpenCache(path, "v1", nil)
	require.NoError(t, err)
	defer v1.Close()
	installed, err := v1.Installed()
	require.NoError(t, err)
	assert.False(t, installed)

	_, err = v1.Get("/index.html")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPutAndGetRoundTrip(t *testing.T) {
	t.Parallel()
	cache := newTestCache(t, "v1")

	asset := &CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   []byte(`{"ok":true}`),
	}
	require.NoError(t, cache.Put("/data/casillero.json", asset))

	got, err := cache.Get("/data/casillero.json")
	require.NoError(t, err)
	assert.Equal(t, asset, got)

	_, err = cache.Get("/data/other.json")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
