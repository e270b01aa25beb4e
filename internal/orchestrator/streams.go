package orchestrator

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/famomatic/ytx/internal/playerjs"
	"github.com/famomatic/ytx/internal/urlutil"
)

// Stream is one normalized playable variant from a player response. URL is
// set once the stream is directly playable; SignatureToken holds the raw
// cipher token while deciphering is still pending or unavailable.
type Stream struct {
	ASR            *uint64
	FileSize       *uint64
	Itag           string
	MimeType       string
	Quality        string
	URL            string
	SignatureToken string
	TBR            float64
}

// Usable reports whether the stream resolved to a playable URL.
func (s Stream) Usable() bool { return s.URL != "" }

// Result is one successful extraction: the winning persona, the player
// script the streams were deciphered against, and the streams themselves.
type Result struct {
	Client    string
	PlayerURL string
	Streams   []Stream
}

// normalizeStreams flattens the progressive and adaptive format lists of a
// player response into Stream values.
func normalizeStreams(resp gjson.Result) []Stream {
	duration := resp.Get("videoDetails.lengthSeconds").Float()
	var out []Stream
	for _, section := range []string{"streamingData.formats", "streamingData.adaptiveFormats"} {
		for _, f := range resp.Get(section).Array() {
			out = append(out, normalizeFormat(f, duration))
		}
	}
	return out
}

func normalizeFormat(f gjson.Result, duration float64) Stream {
	var s Stream
	if itag := f.Get("itag"); itag.Exists() {
		s.Itag = itag.String()
	}
	s.MimeType = f.Get("mimeType").String()
	if asr := f.Get("audioSampleRate"); asr.Exists() {
		if v, err := strconv.ParseUint(asr.String(), 10, 64); err == nil {
			s.ASR = &v
		}
	}

	bitrate := f.Get("averageBitrate").Float()
	if bitrate == 0 {
		bitrate = f.Get("bitrate").Float()
	}
	s.TBR = bitrate / 1000

	if cl := f.Get("contentLength"); cl.Exists() {
		if v, err := strconv.ParseUint(cl.String(), 10, 64); err == nil {
			s.FileSize = &v
		}
	} else if s.TBR > 0 && duration > 0 {
		// 125 = 1000/8, bytes per second per kbit/s.
		size := uint64(duration * s.TBR * 125)
		s.FileSize = &size
	}

	if q := f.Get("audioQuality"); q.Exists() {
		s.Quality = strings.ToLower(q.String())
	} else {
		s.Quality = f.Get("quality").String()
	}

	if u := f.Get("url"); u.Exists() {
		s.URL = u.String()
		return s
	}
	if c := f.Get("signatureCipher"); c.Exists() {
		s.SignatureToken = c.String()
	} else if c := f.Get("cipher"); c.Exists() {
		s.SignatureToken = c.String()
	}
	return s
}

// resolveStream finalizes one stream: deciphers a signature cipher into a
// playable URL and rewrites the throttling "n" parameter. Streams that
// cannot be resolved keep their signature token and stay unusable.
func resolveStream(s Stream, d *playerjs.Decipherer) Stream {
	if s.URL != "" {
		if d != nil {
			s.URL = rewriteN(s.URL, d)
		}
		return s
	}
	if s.SignatureToken == "" || d == nil {
		return s
	}

	fields := urlutil.ParseQuery(s.SignatureToken)
	rawURL := fields["url"]
	sig := fields["s"]
	if rawURL == "" || sig == "" {
		return s
	}
	deciphered, err := d.DecipherSignature(sig)
	if err != nil {
		return s
	}
	sigParam := fields["sp"]
	if sigParam == "" {
		sigParam = "signature"
	}
	resolved, err := urlutil.SetQueryParam(rawURL, sigParam, deciphered)
	if err != nil {
		return s
	}
	s.URL = rewriteN(resolved, d)
	s.SignatureToken = ""
	return s
}

func rewriteN(rawURL string, d *playerjs.Decipherer) string {
	n, ok := urlutil.QueryParam(rawURL, "n")
	if !ok || n == "" {
		return rawURL
	}
	decoded, err := d.DecipherN(n)
	if err != nil {
		return rawURL
	}
	rewritten, err := urlutil.ReplaceNSigQueryParam(rawURL, decoded)
	if err != nil {
		return rawURL
	}
	return rewritten
}
