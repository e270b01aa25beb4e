package client

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/famomatic/ytx/internal/cookies"
	"github.com/famomatic/ytx/internal/pot"
)

// Config holds configuration for the extraction client.
type Config struct {
	// HTTPClient is the client used for making requests.
	// If nil, a default client honoring ProxyURL is used.
	HTTPClient *http.Client

	// ProxyURL is the optional proxy URL to use for requests.
	// If HTTPClient is provided, this field is ignored.
	ProxyURL string

	// CookieJar carries session cookies. A non-nil jar marks the session
	// as authenticated, which unlocks cookie-only client personas.
	CookieJar http.CookieJar

	// PoTokenProvider supplies proof-of-origin tokens. If nil, personas
	// whose streaming protocol requires a token are skipped.
	PoTokenProvider pot.Provider

	// Clients restricts and reorders the client personas to try
	// (e.g. "web", "ios", "android"). If empty, package defaults apply.
	Clients []string

	// GeoBypassIP is applied as the forwarded-IP header after the first
	// geo-restriction rejection, never before.
	GeoBypassIP string

	// RequestTimeout bounds any single FetchStreams call that arrives
	// without a deadline. Zero means no timeout.
	RequestTimeout time.Duration

	// Logger receives non-fatal warnings. If nil, warnings are dropped.
	Logger Logger
}

// LoadCookieJar reads a Netscape-format cookies.txt document into a jar
// suitable for Config.CookieJar.
func LoadCookieJar(r io.Reader) (http.CookieJar, error) {
	return cookies.LoadJar(r)
}

func defaultHTTPClient(proxyURL string) *http.Client {
	if strings.TrimSpace(proxyURL) == "" {
		return http.DefaultClient
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return http.DefaultClient
	}
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultClient
	}
	transport := baseTransport.Clone()
	transport.Proxy = http.ProxyURL(parsed)
	return &http.Client{Transport: transport}
}
