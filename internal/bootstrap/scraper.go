package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/famomatic/ytx/internal/innertube"
	"github.com/famomatic/ytx/internal/transport"
)

// watchQuery pins the query parameters that keep the watch page serving
// full markup: a far-future bypass-content-rating timestamp and the
// verified-viewer flag.
var watchQuery = map[string]string{
	"bpctr":        "9999999999",
	"has_verified": "1",
}

// FetchWatchPage retrieves the watch-page HTML for a video via the
// persona's host. The request is always anonymous; bootstrap values must
// never leak between personas.
func FetchWatchPage(ctx context.Context, t *transport.Client, profile innertube.ClientProfile, videoID string) (string, error) {
	base := url.URL{Scheme: "https", Host: profile.Host}
	watchURL, err := base.Parse("watch")
	if err != nil {
		return "", fmt.Errorf("bootstrap: watch url for %q: %w", profile.Host, err)
	}

	query := make(map[string]string, len(watchQuery)+1)
	for k, v := range watchQuery {
		query[k] = v
	}
	query["v"] = videoID

	headers := http.Header{}
	headers.Set("Accept-Language", "en-US,en")
	if ua := scrapeUserAgent(profile); ua != "" {
		headers.Set("User-Agent", ua)
	}

	resp, err := t.Send(ctx, http.MethodGet, watchURL.String(), headers, query, nil)
	if err != nil {
		return "", fmt.Errorf("bootstrap: fetch watch page: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("bootstrap: watch page returned status %d", resp.StatusCode)
	}
	return string(resp.Body), nil
}

// scrapeUserAgent picks the user agent forced on page scrapes: the
// authenticated UA when the persona defines one, otherwise the API UA.
func scrapeUserAgent(profile innertube.ClientProfile) string {
	if ua := strings.TrimSpace(profile.AuthenticatedUserAgent); ua != "" {
		return ua
	}
	return strings.TrimSpace(profile.Context.Client.UserAgent)
}
