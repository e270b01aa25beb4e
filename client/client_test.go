package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/famomatic/ytx/internal/pot"
)

const fakePlayerPath = "/s/player/abc123/player_ias.vflset/en_US/base.js"

const fakeWatchPage = `<html><head>
<script>ytcfg.set({"INNERTUBE_API_KEY":"test-key","PLAYER_JS_URL":"` + fakePlayerPath + `","VISITOR_DATA":"visitor-1"});</script>
</head><body>
<script>var ytInitialData = {"contents":{}};</script>
</body></html>`

const fakePlayerScript = `
var meta={signatureTimestamp:19834};
var Ab={xy:function(a){a.reverse()},zk:function(a,b){a.splice(0,b)},qm:function(a,b){var c=a[0];a[0]=a[b%a.length];a[b%a.length]=c}};
function sig(a){a=a.split("");Ab.zk(a,1);Ab.xy(a,0);Ab.qm(a,2);return a.join("")}
nfn=function(a){a=a.split("");a.splice(0,1);return a.join("")};
var use=function(d,b){if(d.get("n"))  && (b=nfn(b),d.set("n",b))};
`

func fakePlayerResponse(playability string) string {
	if playability != "" {
		return `{"playabilityStatus": {"status": "` + playability + `", "reason": "Sign in"}}`
	}
	cipher := url.Values{}
	cipher.Set("s", "abcdef")
	cipher.Set("sp", "sig")
	cipher.Set("url", "https://r1.example.com/videoplayback?id=1&n=12345")
	return `{
		"playabilityStatus": {"status": "OK"},
		"videoDetails": {"lengthSeconds": "100"},
		"streamingData": {
			"formats": [
				{"itag": 18, "bitrate": 500000, "quality": "medium",
				 "mimeType": "video/mp4; codecs=\"avc1.42001E, mp4a.40.2\"",
				 "url": "https://r2.example.com/videoplayback?id=2&n=12345"}
			],
			"adaptiveFormats": [
				{"itag": 251, "averageBitrate": 128000, "audioQuality": "AUDIO_QUALITY_MEDIUM",
				 "audioSampleRate": "48000", "contentLength": "999",
				 "mimeType": "audio/webm; codecs=\"opus\"",
				 "signatureCipher": "` + cipher.Encode() + `"}
			]
		}
	}`
}

// fakeBackend serves watch pages, player scripts and API responses.
type fakeBackend struct {
	playerResponse string
	requests       []*http.Request
}

func (f *fakeBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	respond := func(payload string) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(payload)),
		}, nil
	}
	switch {
	case req.URL.Path == "/watch":
		return respond(fakeWatchPage)
	case req.URL.Path == fakePlayerPath:
		return respond(fakePlayerScript)
	case strings.HasPrefix(req.URL.Path, "/youtubei/v1/player"):
		return respond(f.playerResponse)
	default:
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("not found")),
		}, nil
	}
}

func newTestClient(backend *fakeBackend, clients []string) *Client {
	return New(Config{
		HTTPClient:      &http.Client{Transport: backend},
		PoTokenProvider: pot.Static("gvs-token"),
		Clients:         clients,
	})
}

func TestFetchStreams(t *testing.T) {
	backend := &fakeBackend{playerResponse: fakePlayerResponse("")}
	c := newTestClient(backend, []string{"web"})

	resp, err := c.FetchStreams(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchStreams: %v", err)
	}
	if resp.Client != "web" {
		t.Fatalf("Client=%q, want %q", resp.Client, "web")
	}
	if resp.PlayerURL != fakePlayerPath {
		t.Fatalf("PlayerURL=%q, want %q", resp.PlayerURL, fakePlayerPath)
	}
	if resp.Streams.Len() != 2 {
		t.Fatalf("Streams.Len()=%d, want 2", resp.Streams.Len())
	}

	audio, ok := resp.Streams.AudioOnly().First()
	if !ok {
		t.Fatal("expected an audio-only stream")
	}
	if audio.Itag != "251" || !audio.IsURL() {
		t.Fatalf("audio stream=%+v, want deciphered itag 251", audio)
	}
	if audio.Ext() != "webm" {
		t.Fatalf("audio.Ext()=%q, want %q", audio.Ext(), "webm")
	}
}

func TestFetchStreamsInvalidInput(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(backend, nil)
	if _, err := c.FetchStreams(context.Background(), "not a video"); !errors.Is(err, ErrInvalidVideoID) {
		t.Fatalf("error=%v, want ErrInvalidVideoID", err)
	}
	if len(backend.requests) != 0 {
		t.Fatal("invalid input must be rejected before any network activity")
	}
}

func TestFetchStreamsMapsLoginRequired(t *testing.T) {
	backend := &fakeBackend{playerResponse: fakePlayerResponse("LOGIN_REQUIRED")}
	c := newTestClient(backend, []string{"web"})

	_, err := c.FetchStreams(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("error=%v, want ErrLoginRequired", err)
	}
	var failed *ExtractionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error=%T, want *ExtractionFailedError", err)
	}
	if len(failed.Attempts) != 1 || failed.Attempts[0].Client != "web" {
		t.Fatalf("attempts=%+v, want one web attempt", failed.Attempts)
	}
}
