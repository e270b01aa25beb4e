package client

import (
	"context"
	"errors"
	"time"

	"github.com/famomatic/ytx/internal/innertube"
	"github.com/famomatic/ytx/internal/orchestrator"
	"github.com/famomatic/ytx/internal/playercache"
	"github.com/famomatic/ytx/internal/pot"
	"github.com/famomatic/ytx/internal/transport"
)

// Client resolves playable stream descriptors for videos.
type Client struct {
	config Config
	engine *orchestrator.Engine
}

// New creates a new extraction client.
func New(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = defaultHTTPClient(config.ProxyURL)
	}
	if config.CookieJar != nil {
		config.HTTPClient.Jar = config.CookieJar
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	cookieAuth := config.CookieJar != nil || config.HTTPClient.Jar != nil

	engine := orchestrator.NewEngine(orchestrator.Options{
		Registry:    innertube.NewRegistry(),
		Transport:   transport.New(config.HTTPClient),
		Cache:       playercache.New(),
		Tokens:      pot.NewCachedProvider(config.PoTokenProvider),
		Logger:      logger,
		CookieAuth:  cookieAuth,
		Clients:     config.Clients,
		GeoBypassIP: config.GeoBypassIP,
	})

	return &Client{config: config, engine: engine}
}

// FetchStreams resolves the stream descriptors for the given video ID or
// watch URL. Client personas are tried in priority order until one yields
// at least one playable stream.
func (c *Client) FetchStreams(ctx context.Context, input string) (*StreamResponse, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	videoID, err := ExtractVideoID(input)
	if err != nil {
		return nil, err
	}

	result, err := c.engine.Extract(ctx, videoID.String())
	if err != nil {
		return nil, mapError(err)
	}

	streams := make([]Stream, 0, len(result.Streams))
	for _, s := range result.Streams {
		streams = append(streams, toStream(s))
	}
	return &StreamResponse{
		Client:    result.Client,
		PlayerURL: result.PlayerURL,
		Streams:   NewStreamList(streams),
	}, nil
}

func toStream(s orchestrator.Stream) Stream {
	return Stream{
		ASR:            s.ASR,
		FileSize:       s.FileSize,
		Itag:           s.Itag,
		MimeType:       s.MimeType,
		Quality:        s.Quality,
		URL:            s.URL,
		SignatureToken: s.SignatureToken,
		TBR:            s.TBR,
	}
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var exhausted *orchestrator.ExhaustedError
	if errors.As(err, &exhausted) {
		attempts := make([]AttemptDetail, 0, len(exhausted.Attempts))
		hasLoginRequired := false
		hasUnavailable := false
		hasNoStreams := false
		for _, attempt := range exhausted.Attempts {
			attempts = append(attempts, AttemptDetail{
				Client: attempt.Client,
				Reason: attempt.Err.Error(),
			})
			var playability *orchestrator.PlayabilityError
			if errors.As(attempt.Err, &playability) {
				if playability.RequiresLogin() {
					hasLoginRequired = true
				} else {
					hasUnavailable = true
				}
				continue
			}
			var noStreams *orchestrator.NoStreamsError
			if errors.As(attempt.Err, &noStreams) {
				hasNoStreams = true
			}
		}
		sentinel := ErrAllClientsFailed
		switch {
		case hasLoginRequired:
			sentinel = ErrLoginRequired
		case hasUnavailable:
			sentinel = ErrUnavailable
		case hasNoStreams:
			sentinel = ErrNoPlayableStreams
		}
		return &ExtractionFailedError{Sentinel: sentinel, Attempts: attempts}
	}

	if errors.Is(err, orchestrator.ErrNoPersonas) {
		return &ExtractionFailedError{Sentinel: ErrAllClientsFailed}
	}
	return err
}
