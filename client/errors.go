package client

import "errors"

var (
	// ErrInvalidVideoID indicates a malformed video identifier, rejected
	// before any network activity.
	ErrInvalidVideoID = errors.New("invalid video id")
	// ErrUnavailable indicates the video cannot be played at all.
	ErrUnavailable = errors.New("video unavailable")
	// ErrLoginRequired indicates an authenticated session is required.
	ErrLoginRequired = errors.New("login required")
	// ErrNoPlayableStreams indicates extraction succeeded but produced no
	// usable stream.
	ErrNoPlayableStreams = errors.New("no playable streams")
	// ErrAllClientsFailed indicates every client persona was tried and
	// none produced a usable stream.
	ErrAllClientsFailed = errors.New("all clients failed")
)

// AttemptDetail describes one failed persona attempt inside an aggregate
// failure.
type AttemptDetail struct {
	Client string
	Reason string
}

// ExtractionFailedError aggregates per-persona failures behind one of the
// sentinel errors above.
type ExtractionFailedError struct {
	Sentinel error
	Attempts []AttemptDetail
}

func (e *ExtractionFailedError) Error() string {
	return e.Sentinel.Error()
}

func (e *ExtractionFailedError) Unwrap() error { return e.Sentinel }
