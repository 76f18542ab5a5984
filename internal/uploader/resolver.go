package uploader

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Resolver lazily converts stored public-style URLs into time-limited
// readable URLs. Each distinct URL is resolved at most once per session:
// results are memoized and concurrent resolutions of the same URL share a
// single backend round trip.
//
// Cached entries have no client-side expiry; a signed URL that outlives its
// validity window is served stale until the session ends.
type Resolver struct {
	client      *Client
	signedHosts []string

	mu    sync.Mutex
	cache map[string]string
	group singleflight.Group
}

func NewResolver(client *Client, signedHosts []string) *Resolver {
	return &Resolver{
		client:      client,
		signedHosts: signedHosts,
		cache:       make(map[string]string),
	}
}

// Resolve never fails: URLs outside the storage domain are returned
// unchanged without a backend call, and any resolution failure degrades to
// the original URL. A broken preview is better than a broken page.
func (r *Resolver) Resolve(ctx context.Context, originalURL string) string {
	if !r.isStorageURL(originalURL) {
		return originalURL
	}

	r.mu.Lock()
	if cached, ok := r.cache[originalURL]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(originalURL, func() (any, error) {
		// A concurrent winner may have populated the cache already.
		r.mu.Lock()
		if cached, ok := r.cache[originalURL]; ok {
			r.mu.Unlock()
			return cached, nil
		}
		r.mu.Unlock()

		// The flight is shared by every concurrent caller, so it must not
		// die with the first caller's context.
		signed, err := r.client.Sign(context.WithoutCancel(ctx), originalURL)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[originalURL] = signed
		r.mu.Unlock()
		return signed, nil
	})
	if err != nil {
		log.Debug().Err(err).Str("url", originalURL).Msg("signed url resolution failed")
		return originalURL
	}

	return v.(string)
}

func (r *Resolver) isStorageURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	for _, host := range r.signedHosts {
		if parsed.Host == host {
			return true
		}
	}
	return false
}
