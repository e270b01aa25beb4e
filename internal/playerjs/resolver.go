package playerjs

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/famomatic/ytx/internal/playercache"
	"github.com/famomatic/ytx/internal/transport"
)

const defaultPlayerHost = "https://www.youtube.com"
const playerCacheNamespace = "playerjs"

var playerURLPattern = regexp.MustCompile(`(/s/player/[A-Za-z0-9_-]+/[A-Za-z0-9._/-]*base\.js)`)

// ErrPlayerURLNotFound is returned when a watch page carries no player
// script reference.
var ErrPlayerURLNotFound = fmt.Errorf("playerjs: player url not found in page")

// ExtractPlayerURL finds the player script path referenced by watch-page
// HTML. The returned path is host-relative.
func ExtractPlayerURL(html string) (string, error) {
	m := playerURLPattern.FindStringSubmatch(html)
	if len(m) < 2 {
		return "", ErrPlayerURLNotFound
	}
	return m[1], nil
}

// Resolver fetches player script bodies, deduplicating concurrent fetches
// of the same script and keeping fetched bodies in a shared cache.
type Resolver struct {
	transport *transport.Client
	cache     *playercache.Cache
	group     singleflight.Group

	// BaseURL overrides the host for host-relative player paths.
	BaseURL string
}

func NewResolver(t *transport.Client, cache *playercache.Cache) *Resolver {
	if cache == nil {
		cache = playercache.New()
	}
	return &Resolver{transport: t, cache: cache}
}

// Fetch returns the player script body for playerURL, from cache when the
// same player identity was fetched before. Concurrent calls for one
// identity share a single network fetch.
func (r *Resolver) Fetch(ctx context.Context, playerURL string) (string, error) {
	key, err := playercache.Key(playerURL)
	if err != nil {
		return "", err
	}
	if body, ok := r.cache.Get(playerCacheNamespace, playerURL); ok {
		return body, nil
	}

	body, err, _ := r.group.Do(key, func() (any, error) {
		if cached, ok := r.cache.Get(playerCacheNamespace, playerURL); ok {
			return cached, nil
		}
		fetched, fetchErr := r.fetch(ctx, playerURL)
		if fetchErr != nil {
			return "", fetchErr
		}
		if putErr := r.cache.Put(playerCacheNamespace, playerURL, fetched); putErr != nil {
			return "", putErr
		}
		return fetched, nil
	})
	if err != nil {
		return "", err
	}
	return body.(string), nil
}

func (r *Resolver) fetch(ctx context.Context, playerURL string) (string, error) {
	target := playerURL
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		base := r.BaseURL
		if base == "" {
			base = defaultPlayerHost
		}
		target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(playerURL, "/")
	}

	resp, err := r.transport.Send(ctx, http.MethodGet, target, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("playerjs: fetch %s: %w", playerURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playerjs: fetch %s: status %d", playerURL, resp.StatusCode)
	}
	return string(resp.Body), nil
}
