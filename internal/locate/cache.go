package locate

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SourceCache keeps the text of every fetched source file for its lifetime.
// Concurrent requests for a URL that is not cached yet share one fetch.
type SourceCache struct {
	fetcher Fetcher

	mu     sync.RWMutex
	texts  map[string]string
	flight singleflight.Group
}

// NewSourceCache creates an empty cache in front of fetcher
func NewSourceCache(fetcher Fetcher) *SourceCache {
	return &SourceCache{
		fetcher: fetcher,
		texts:   make(map[string]string),
	}
}

// Text returns the text behind rawURL, fetching it on first use. A failed
// fetch is not cached. Once started, a fetch runs to completion even if ctx
// is cancelled, so other waiters still get the result; the cancelled caller
// returns ctx.Err() without waiting.
func (c *SourceCache) Text(ctx context.Context, rawURL string) (string, error) {
	c.mu.RLock()
	text, ok := c.texts[rawURL]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(rawURL, func() (interface{}, error) {
		c.mu.RLock()
		text, ok := c.texts[rawURL]
		c.mu.RUnlock()
		if ok {
			return text, nil
		}

		text, err := c.fetcher.Fetch(detached, rawURL)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.texts[rawURL] = text
		c.mu.Unlock()
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Len returns the number of cached files
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.texts)
}
