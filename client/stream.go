package client

import (
	"sort"

	"github.com/famomatic/ytx/internal/mimeext"
)

// audioOnlyQualities and videoOnlyQualities are the quality labels the
// platform assigns to single-track streams. Labels outside both sets
// (e.g. pre-merged progressive formats) belong to neither bucket.
var audioOnlyQualities = []string{
	"audio_quality_ultralow",
	"audio_quality_low",
	"audio_quality_medium",
	"audio_quality_high",
}

var videoOnlyQualities = []string{
	"tiny", "small", "medium", "large", "hd720", "hd1080", "hd1440", "hd2160", "hd2880", "highres",
}

// Stream is one playable variant. Exactly one of URL and SignatureToken is
// set: URL for directly playable streams, SignatureToken for streams whose
// signature could not be deciphered.
type Stream struct {
	// ASR is the audio sample rate in Hz, nil for video-only streams.
	ASR *uint64
	// FileSize in bytes; estimated from bitrate and duration when the
	// response carries no content length.
	FileSize *uint64
	Itag     string
	// MimeType is the full codec-qualified mime type, e.g.
	// `audio/webm; codecs="opus"`.
	MimeType string
	Quality  string
	URL      string
	// SignatureToken is the raw cipher token for undeciphered streams.
	SignatureToken string
	// TBR is the total bitrate in kbit/s.
	TBR float64
}

// IsURL reports whether the stream is directly playable.
func (s Stream) IsURL() bool { return s.URL != "" }

// IsSignature reports whether the stream still needs signature deciphering.
func (s Stream) IsSignature() bool { return !s.IsURL() && s.SignatureToken != "" }

// Ext returns the file extension for the stream's container, derived from
// its mime type. Empty when no mime type was reported.
func (s Stream) Ext() string {
	if s.MimeType == "" {
		return ""
	}
	return mimeext.ExtFromMime(s.MimeType)
}

// StreamList is an immutable ordered collection of streams. Every filter
// returns a new list; the receiver is never mutated.
type StreamList struct {
	streams []Stream
}

func NewStreamList(streams []Stream) StreamList {
	return StreamList{streams: append([]Stream(nil), streams...)}
}

// Len returns the number of streams in the list.
func (l StreamList) Len() int { return len(l.streams) }

// All returns a copy of the underlying streams.
func (l StreamList) All() []Stream {
	return append([]Stream(nil), l.streams...)
}

// First returns the first stream, if any.
func (l StreamList) First() (Stream, bool) {
	if len(l.streams) == 0 {
		return Stream{}, false
	}
	return l.streams[0], true
}

func (l StreamList) filter(keep func(Stream) bool) StreamList {
	out := make([]Stream, 0, len(l.streams))
	for _, s := range l.streams {
		if keep(s) {
			out = append(out, s)
		}
	}
	return StreamList{streams: out}
}

// AudioOnly returns the streams carrying only an audio track.
func (l StreamList) AudioOnly() StreamList {
	return l.filter(func(s Stream) bool { return containsString(audioOnlyQualities, s.Quality) })
}

// VideoOnly returns the streams carrying only a video track.
func (l StreamList) VideoOnly() StreamList {
	return l.filter(func(s Stream) bool { return containsString(videoOnlyQualities, s.Quality) })
}

// OnlyURLs returns the streams that are directly playable.
func (l StreamList) OnlyURLs() StreamList {
	return l.filter(Stream.IsURL)
}

// OnlySignatures returns the streams that still need deciphering.
func (l StreamList) OnlySignatures() StreamList {
	return l.filter(Stream.IsSignature)
}

// WithHighestBitrate returns a new list sorted highest bitrate first.
func (l StreamList) WithHighestBitrate() StreamList {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].TBR > out[j].TBR })
	return StreamList{streams: out}
}

// WithLowestBitrate returns a new list sorted lowest bitrate first.
func (l StreamList) WithLowestBitrate() StreamList {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].TBR < out[j].TBR })
	return StreamList{streams: out}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// StreamResponse is the result of one extraction: the winning client
// persona, the player script URL the streams were deciphered against, and
// the stream list.
type StreamResponse struct {
	Client    string
	PlayerURL string
	Streams   StreamList
}
