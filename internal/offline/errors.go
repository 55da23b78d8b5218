package offline

import "errors"

var (
	// ErrCacheInit indicates the cache file could not be opened or
	// provisioned. Without a working cache the gateway cannot start.
	ErrCacheInit = errors.New("offline cache initialization failed")

	// ErrCacheMiss indicates the requested path is not in the active
	// cache.
	ErrCacheMiss = errors.New("asset not cached")

	// ErrInstallFailed indicates an install run could not fetch the full
	// manifest. Nothing is written on a failed install; the previously
	// active cache, if any, stays intact.
	ErrInstallFailed = errors.New("cache install failed")
)
