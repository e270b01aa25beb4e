// Package orchestrator drives the persona fallback loop: personas are
// tried strictly sequentially in ascending priority order, each attempt
// owning its own session state, and the first persona that yields at least
// one usable stream wins.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/famomatic/ytx/internal/bootstrap"
	"github.com/famomatic/ytx/internal/innertube"
	"github.com/famomatic/ytx/internal/playercache"
	"github.com/famomatic/ytx/internal/playerjs"
	"github.com/famomatic/ytx/internal/pot"
	"github.com/famomatic/ytx/internal/transport"
)

// Logger is an optional logger used for non-fatal warnings.
type Logger interface {
	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Options configures an Engine. Transport is required; everything else has
// a usable zero value.
type Options struct {
	Registry  *innertube.Registry
	Transport *transport.Client
	Cache     *playercache.Cache
	Tokens    pot.Provider
	Logger    Logger

	// CookieAuth marks the transport's cookie jar as carrying an
	// authenticated session.
	CookieAuth bool

	// Clients restricts and reorders the personas to try. Unknown ids are
	// ignored. Empty means the full registry.
	Clients []string

	// GeoBypassIP, when set, is applied as the forwarded-IP header after
	// the first geo-restriction rejection, never before.
	GeoBypassIP string
}

// Engine runs extractions. Safe for concurrent use; per-extraction state
// never outlives one Extract call.
type Engine struct {
	registry    *innertube.Registry
	transport   *transport.Client
	api         *innertube.APIClient
	resolver    *playerjs.Resolver
	tokens      pot.Provider
	logger      Logger
	cookieAuth  bool
	clients     []string
	geoBypassIP string
}

func NewEngine(opts Options) *Engine {
	if opts.Registry == nil {
		opts.Registry = innertube.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Engine{
		registry:    opts.Registry,
		transport:   opts.Transport,
		api:         innertube.NewAPIClient(opts.Transport),
		resolver:    playerjs.NewResolver(opts.Transport, opts.Cache),
		tokens:      opts.Tokens,
		logger:      opts.Logger,
		cookieAuth:  opts.CookieAuth,
		clients:     opts.Clients,
		geoBypassIP: opts.GeoBypassIP,
	}
}

// Extract resolves the stream descriptors for videoID. Personas are tried
// in ascending priority order; a failed persona is excluded and the next
// one tried. When every persona fails the terminal error is an
// *ExhaustedError carrying all attempt failures.
func (e *Engine) Extract(ctx context.Context, videoID string) (*Result, error) {
	personas := e.selectPersonas()
	if len(personas) == 0 {
		return nil, ErrNoPersonas
	}

	var attempts []AttemptError
	for _, profile := range personas {
		result, err := e.attempt(ctx, profile, videoID)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warnf("client %s failed: %v", profile.ID, err)
		e.maybeEnableGeoBypass(err)
		attempts = append(attempts, AttemptError{Client: profile.ID, Err: err})
	}
	return nil, &ExhaustedError{Attempts: attempts}
}

func (e *Engine) selectPersonas() []innertube.ClientProfile {
	if len(e.clients) == 0 {
		return e.registry.OrderedByPriority()
	}
	subset := make([]innertube.ClientProfile, 0, len(e.clients))
	for _, id := range e.clients {
		profile, ok := e.registry.Get(strings.TrimSpace(id))
		if !ok {
			e.logger.Warnf("ignoring unknown client %q", id)
			continue
		}
		subset = append(subset, profile)
	}
	// An explicit client list that matches nothing must not widen to the
	// full registry.
	if len(subset) == 0 {
		return nil
	}
	return e.registry.OrderedByPriority(subset...)
}

// attempt runs the full state sequence for one persona: bootstrap, token
// check, player call, decipher. Any error fails only this persona.
func (e *Engine) attempt(ctx context.Context, profile innertube.ClientProfile, videoID string) (*Result, error) {
	var (
		session   innertube.SessionState
		apiKey    string
		playerURL string
		premium   bool
	)

	needsBootstrap := profile.RequireJSPlayer || profile.RequireAuth || (profile.SupportsCookies && e.cookieAuth)
	if needsBootstrap {
		html, err := bootstrap.FetchWatchPage(ctx, e.transport, profile, videoID)
		if err != nil {
			return nil, err
		}
		cfg := bootstrap.ExtractConfig(html)
		session = bootstrap.Session(cfg)
		apiKey = bootstrap.APIKey(cfg)
		playerURL = bootstrap.PlayerJSURL(cfg)
		if playerURL == "" {
			playerURL, _ = playerjs.ExtractPlayerURL(html)
		}

		if profile.SupportsCookies && e.cookieAuth {
			session.CookieAuth = true
			initialData, err := bootstrap.ExtractInitialData(html)
			if err != nil {
				return nil, err
			}
			premium = bootstrap.IsPremiumSubscriber(initialData)
		}
	}
	if profile.RequireAuth && !session.CookieAuth {
		return nil, fmt.Errorf("client %s requires an authenticated session", profile.ID)
	}
	if profile.RequireJSPlayer && playerURL == "" {
		return nil, fmt.Errorf("client %s: player script url not found", profile.ID)
	}

	token := e.acquireToken(ctx, profile)
	hasPlayerToken := token != ""
	if innertube.NeedsPlayerToken(profile, premium) == innertube.TokenRequired && !hasPlayerToken {
		return nil, &TokenRequiredError{Client: profile.ID, Protocol: "player"}
	}
	for _, protocol := range innertube.Protocols {
		if innertube.NeedsToken(profile, protocol, premium, hasPlayerToken) == innertube.TokenRequired && token == "" {
			return nil, &TokenRequiredError{Client: profile.ID, Protocol: string(protocol)}
		}
	}

	var decipherer *playerjs.Decipherer
	signatureTimestamp := 0
	if profile.RequireJSPlayer {
		script, err := e.resolver.Fetch(ctx, playerURL)
		if err != nil {
			return nil, err
		}
		decipherer = playerjs.NewDecipherer(script)
		signatureTimestamp = playerjs.SignatureTimestamp(script)
	}

	query := map[string]any{
		"videoId":        videoID,
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}
	if signatureTimestamp > 0 {
		query["playbackContext.contentPlaybackContext.signatureTimestamp"] = signatureTimestamp
	}
	if token != "" {
		query["serviceIntegrityDimensions.poToken"] = token
	}

	resp, err := e.api.Call(ctx, innertube.EndpointPlayer, profile, innertube.CallOptions{
		Query:   query,
		APIKey:  apiKey,
		Session: session,
	})
	if err != nil {
		return nil, err
	}

	if status := resp.Get("playabilityStatus.status").String(); status != "" && status != "OK" {
		return nil, &PlayabilityError{
			Client: profile.ID,
			Status: status,
			Reason: resp.Get("playabilityStatus.reason").String(),
		}
	}

	streams := normalizeStreams(resp)
	resolved := make([]Stream, 0, len(streams))
	usable := 0
	for _, s := range streams {
		final := resolveStream(s, decipherer)
		if final.Usable() {
			usable++
		}
		resolved = append(resolved, final)
	}
	if usable == 0 {
		return nil, &NoStreamsError{Client: profile.ID}
	}
	return &Result{Client: profile.ID, PlayerURL: playerURL, Streams: resolved}, nil
}

func (e *Engine) acquireToken(ctx context.Context, profile innertube.ClientProfile) string {
	if e.tokens == nil {
		return ""
	}
	token, err := e.tokens.GetToken(ctx, profile.ID)
	if err != nil {
		e.logger.Warnf("po token provider failed for client %s: %v", profile.ID, err)
		return ""
	}
	return strings.TrimSpace(token)
}

// maybeEnableGeoBypass arms the forwarded-IP header once a geo-restriction
// rejection has been observed, so later personas retry from the configured
// vantage point.
func (e *Engine) maybeEnableGeoBypass(err error) {
	if e.geoBypassIP == "" || e.transport.ForwardedIP() != "" {
		return
	}
	var playability *PlayabilityError
	if errors.As(err, &playability) && playability.IsGeoRestricted() {
		e.logger.Warnf("geo restriction observed, retrying with forwarded ip")
		e.transport.SetForwardedIP(e.geoBypassIP)
	}
}
