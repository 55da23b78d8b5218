package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	bolt "go.etcd.io/bbolt"
)

// cacheNamePrefix marks the buckets this package owns. Activation only
// ever touches buckets carrying the prefix.
const cacheNamePrefix = "shell-"

// CachedResponse is a stored asset: enough of the origin's response to
// replay it verbatim.
type CachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Successful reports whether the response carries a 2xx status. Only
// successful responses are cacheable; anything else may still be relayed
// to the caller but never stored.
func (r *CachedResponse) Successful() bool {
	return r.Status >= 200 && r.Status <= 299
}

// Cache is the versioned asset store. Each version owns one bucket named
// shell-<version>; entries are keyed by request path.
type Cache struct {
	db     *bolt.DB
	name   string
	logger *slog.Logger
}

// OpenCache opens or creates the cache file and binds it to the given
// version. Failures wrap ErrCacheInit.
func OpenCache(path, version string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCacheInit, path, err)
	}
	return &Cache{
		db:     db,
		name:   cacheNamePrefix + version,
		logger: log.With(slog.String("component", "offline_cache")),
	}, nil
}

// Name returns the active bucket name, shell-<version>.
func (c *Cache) Name() string { return c.name }

// Close releases the underlying cache file.
func (c *Cache) Close() error { return c.db.Close() }

// Installed reports whether the active version's bucket exists. A bucket
// is only ever created by a fully successful Install.
func (c *Cache) Installed() (bool, error) {
	var exists bool
	err := c.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket([]byte(c.name)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check cache bucket: %w", err)
	}
	return exists, nil
}

// Install fetches every manifest asset from the origin and writes the
// whole set in one transaction. The install is all or nothing: a single
// failed fetch aborts it with ErrInstallFailed and the cache file is left
// untouched. An already installed version is a no-op.
func (c *Cache) Install(ctx context.Context, client *http.Client, origin string, manifest []string) error {
	installed, err := c.Installed()
	if err != nil {
		return err
	}
	if installed {
		c.logger.Debug("cache version already installed", slog.String("cache", c.name))
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	assets := make(map[string]*CachedResponse, len(manifest))
	for _, path := range manifest {
		resp, err := fetchAsset(ctx, client, origin, path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, path, err)
		}
		if !resp.Successful() {
			return fmt.Errorf("%w: %s: origin returned %d", ErrInstallFailed, path, resp.Status)
		}
		assets[path] = resp
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(c.name))
		if err != nil {
			return err
		}
		for path, asset := range assets {
			encoded, err := json.Marshal(asset)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(path), encoded); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: write cache: %v", ErrInstallFailed, err)
	}

	c.logger.Info("cache version installed",
		slog.String("cache", c.name),
		slog.Int("assets", len(assets)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// Activate evicts every cache bucket belonging to another version. The
// active bucket and buckets outside this package's prefix are untouched.
func (c *Cache) Activate() error {
	var evicted []string
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if !bytes.HasPrefix(name, []byte(cacheNamePrefix)) || string(name) == c.name {
				return nil
			}
			evicted = append(evicted, string(name))
			return tx.DeleteBucket(name)
		})
	})
	if err != nil {
		return fmt.Errorf("evict stale caches: %w", err)
	}

	for _, name := range evicted {
		c.logger.Info("stale cache evicted", slog.String("cache", name))
	}
	return nil
}

// Get returns the cached asset for a path, or ErrCacheMiss.
func (c *Cache) Get(path string) (*CachedResponse, error) {
	var asset *CachedResponse
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(c.name))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrCacheMiss, path)
		}
		raw := bucket.Get([]byte(path))
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrCacheMiss, path)
		}
		asset = &CachedResponse{}
		return json.Unmarshal(raw, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Put stores one asset under the active version, creating the bucket if
// the version was never installed.
func (c *Cache) Put(path string, asset *CachedResponse) error {
	encoded, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("encode cached asset: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(c.name))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(path), encoded)
	})
	if err != nil {
		return fmt.Errorf("store cached asset: %w", err)
	}
	return nil
}

// fetchAsset retrieves one asset from the origin. It fails only when the
// origin cannot deliver a response at all; a delivered non-2xx response is
// returned as-is for the caller to judge.
func fetchAsset(ctx context.Context, client *http.Client, origin, path string) (*CachedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &CachedResponse{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}
