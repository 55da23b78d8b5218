package offline

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/avaldes/memoria/internal/platform/logger"
)

// Gateway serves the application shell cache first. GET requests are
// answered from the active cache when possible, fetched from the origin
// and cached on a miss, and degraded to a cached navigation fallback or a
// synthetic 503 when the origin is unreachable. Non-GET requests pass
// through to the origin untouched.
type Gateway struct {
	cache  *Cache
	origin *url.URL
	client *http.Client
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewGateway builds a gateway over the given cache and origin base URL.
func NewGateway(cache *Cache, origin string, client *http.Client, log *slog.Logger) (*Gateway, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}

	gw := &Gateway{
		cache:  cache,
		origin: base,
		client: client,
		proxy:  httputil.NewSingleHostReverseProxy(base),
		logger: log.With(slog.String("component", "offline_gateway")),
	}
	gw.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		gw.logger.Warn("origin passthrough failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		http.Error(w, "origin unreachable", http.StatusServiceUnavailable)
	}
	return gw, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.proxy.ServeHTTP(w, r)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), g.logger)
	path := r.URL.Path

	asset, err := g.cache.Get(path)
	if err == nil {
		writeCached(w, asset)
		return
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Error("cache read failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, "cache unavailable", http.StatusInternalServerError)
		return
	}

	// Cache miss: try the origin. Whatever it delivers, the caller gets;
	// only successful responses are worth remembering. The fallback paths
	// below are for transport failures alone.
	fetched, err := fetchAsset(r.Context(), g.client, g.origin.String(), path)
	if err == nil {
		if fetched.Successful() {
			if err := g.cache.Put(path, fetched); err != nil {
				log.Warn("failed to cache fetched asset", slog.String("path", path), slog.String("error", err.Error()))
			}
		}
		writeCached(w, fetched)
		return
	}

	log.Warn("origin fetch failed", slog.String("path", path), slog.String("error", err.Error()))

	// Navigations fall back to the cached shell entry point so the app
	// still opens offline on deep links.
	if isNavigation(r) {
		if shell, err := g.cache.Get("/index.html"); err == nil {
			writeCached(w, shell)
			return
		}
		if shell, err := g.cache.Get("/"); err == nil {
			writeCached(w, shell)
			return
		}
	}

	http.Error(w, "offline and not cached", http.StatusServiceUnavailable)
}

// isNavigation applies the fetch-metadata heuristic: a top-level document
// request, or failing that an Accept header preferring HTML.
func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeCached(w http.ResponseWriter, asset *CachedResponse) {
	for key, values := range asset.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(asset.Status)
	w.Write(asset.Body)
}
