// Package playercache is an in-process, content-addressed store for player
// script bodies, keyed by the script's identity rather than fetch time.
package playercache

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var playerPathPattern = regexp.MustCompile(`/s/player/([A-Za-z0-9_-]+)/([A-Za-z0-9._/-]+)$`)

// Key derives the cache key for a player script URL from the player id and
// path embedded in it, formatted "<id>-<path>".
func Key(playerURL string) (string, error) {
	m := playerPathPattern.FindStringSubmatch(playerURL)
	if len(m) < 3 {
		return "", fmt.Errorf("unrecognized player url: %s", playerURL)
	}
	return m[1] + "-" + m[2], nil
}

// Cache stores at most one value per (namespace, player identity) pair.
// Writes are insert-if-absent: the first stored script stays canonical so
// transforms already derived from it never desynchronize.
type Cache struct {
	mu    sync.Mutex
	items map[cacheID]string
}

type cacheID struct {
	namespace string
	key       string
}

func New() *Cache {
	return &Cache{items: make(map[cacheID]string)}
}

// Get returns the cached script body for (namespace, playerURL), if any.
func (c *Cache) Get(namespace, playerURL string) (string, bool) {
	key, err := Key(playerURL)
	if err != nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.items[c.id(namespace, key)]
	return body, ok
}

// Put stores the script body for (namespace, playerURL) unless a value is
// already present; a second Put for the same key is a silent no-op.
func (c *Cache) Put(namespace, playerURL, body string) error {
	key, err := Key(playerURL)
	if err != nil {
		return err
	}
	id := c.id(namespace, key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		c.items[id] = body
	}
	return nil
}

func (c *Cache) id(namespace, key string) cacheID {
	return cacheID{namespace: "youtube-" + strings.TrimSpace(namespace), key: key}
}
