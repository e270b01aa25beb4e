package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/famomatic/ytx/internal/innertube"
	"github.com/famomatic/ytx/internal/transport"
)

const fixturePage = `<!DOCTYPE html><html><head>
<script>ytcfg.set({"INNERTUBE_API_KEY":"X","VISITOR_DATA":"visitor-abc","SESSION_INDEX":"2","INNERTUBE_CONTEXT":{"client":{"visitorData":"ctx-visitor"}}});</script>
</head><body>
<script>var ytInitialData = {"contents":{"title":{"simpleText":"hello {world}"}}};</script>
</body></html>`

func TestExtractConfig(t *testing.T) {
	cfg := ExtractConfig(fixturePage)
	if got := cfg.Get("INNERTUBE_API_KEY").String(); got != "X" {
		t.Fatalf("INNERTUBE_API_KEY=%q, want %q", got, "X")
	}
	if got := cfg.Get("VISITOR_DATA").String(); got != "visitor-abc" {
		t.Fatalf("VISITOR_DATA=%q, want %q", got, "visitor-abc")
	}
}

func TestExtractConfigAbsent(t *testing.T) {
	cfg := ExtractConfig("<html><body>no config here</body></html>")
	if !cfg.IsObject() {
		t.Fatalf("expected empty object document, got %q", cfg.Raw)
	}
	if cfg.Get("INNERTUBE_API_KEY").Exists() {
		t.Fatal("empty document should have no keys")
	}
}

func TestExtractConfigUnbalanced(t *testing.T) {
	cfg := ExtractConfig(`ytcfg.set({"A": {"B": 1`)
	if len(cfg.Map()) != 0 {
		t.Fatalf("unbalanced config should yield empty document, got %q", cfg.Raw)
	}
}

func TestExtractInitialData(t *testing.T) {
	data, err := ExtractInitialData(fixturePage)
	if err != nil {
		t.Fatalf("ExtractInitialData: %v", err)
	}
	if got := data.Get("contents.title.simpleText").String(); got != "hello {world}" {
		t.Fatalf("title=%q, want %q", got, "hello {world}")
	}
}

func TestExtractInitialDataBracketAccess(t *testing.T) {
	page := `<script>window["ytInitialData"] = {"ok":true};</script>`
	data, err := ExtractInitialData(page)
	if err != nil {
		t.Fatalf("ExtractInitialData: %v", err)
	}
	if !data.Get("ok").Bool() {
		t.Fatalf("ok=%v, want true", data.Get("ok").Bool())
	}
}

func TestExtractInitialDataScriptCloseTerminator(t *testing.T) {
	page := `<script>ytInitialData = {"ok":true}</script>`
	if _, err := ExtractInitialData(page); err != nil {
		t.Fatalf("ExtractInitialData: %v", err)
	}
}

func TestExtractInitialDataMissing(t *testing.T) {
	_, err := ExtractInitialData("<html><body></body></html>")
	if !errors.Is(err, ErrInitialDataNotFound) {
		t.Fatalf("err=%v, want ErrInitialDataNotFound", err)
	}
}

func TestSessionFromConfig(t *testing.T) {
	cfg := ExtractConfig(fixturePage)
	state := Session(cfg)
	if state.VisitorData != "visitor-abc" {
		t.Fatalf("VisitorData=%q, want %q", state.VisitorData, "visitor-abc")
	}
	if state.SessionIndex == nil || *state.SessionIndex != 2 {
		t.Fatalf("SessionIndex=%v, want 2", state.SessionIndex)
	}
}

func TestSessionVisitorDataFallsBackToContext(t *testing.T) {
	cfg := gjson.Parse(`{"INNERTUBE_CONTEXT":{"client":{"visitorData":"ctx-visitor"}}}`)
	if got := Session(cfg).VisitorData; got != "ctx-visitor" {
		t.Fatalf("VisitorData=%q, want %q", got, "ctx-visitor")
	}
}

func TestSessionDataSyncID(t *testing.T) {
	tests := []struct {
		cfg           string
		wantDelegated string
		wantUser      string
	}{
		{`{"DATASYNC_ID":"del||user"}`, "del", "user"},
		{`{"DATASYNC_ID":"solo||"}`, "", "solo"},
		{`{"DATASYNC_ID":"solo"}`, "", "solo"},
		{`{"DELEGATED_SESSION_ID":"explicit","DATASYNC_ID":"del||user"}`, "explicit", "user"},
	}
	for _, tt := range tests {
		state := Session(gjson.Parse(tt.cfg))
		if state.DelegatedSessionID != tt.wantDelegated || state.UserSessionID != tt.wantUser {
			t.Fatalf("Session(%s) = (%q, %q), want (%q, %q)",
				tt.cfg, state.DelegatedSessionID, state.UserSessionID, tt.wantDelegated, tt.wantUser)
		}
	}
}

func TestPlayerJSURL(t *testing.T) {
	cfg := gjson.Parse(`{"PLAYER_JS_URL":"//www.youtube.com/s/player/abc123/player_ias.vflset/en_US/base.js"}`)
	want := "https://www.youtube.com/s/player/abc123/player_ias.vflset/en_US/base.js"
	if got := PlayerJSURL(cfg); got != want {
		t.Fatalf("PlayerJSURL=%q, want %q", got, want)
	}
}

func TestTextFromPaths(t *testing.T) {
	node := gjson.Parse(`{
		"a": {"simpleText": "plain"},
		"b": {"runs": [{"text": "one "}, {"text": "two "}, {"text": "three"}]},
		"c": {"other": true}
	}`)
	if got := TextFromPaths(node, []string{"missing", "a"}, 0); got != "plain" {
		t.Fatalf("simpleText path: got %q, want %q", got, "plain")
	}
	if got := TextFromPaths(node, []string{"b"}, 0); got != "one two three" {
		t.Fatalf("runs path: got %q, want %q", got, "one two three")
	}
	if got := TextFromPaths(node, []string{"b"}, 2); got != "one two " {
		t.Fatalf("truncated runs: got %q, want %q", got, "one two ")
	}
	if got := TextFromPaths(node, []string{"c", "missing"}, 0); got != "" {
		t.Fatalf("no text: got %q, want empty", got)
	}
}

func TestIsPremiumSubscriber(t *testing.T) {
	byIcon := gjson.Parse(`{"topbar":{"desktopTopbarRenderer":{"logo":{"topbarLogoRenderer":{"iconImage":{"iconType":"YOUTUBE_PREMIUM_LOGO"}}}}}}`)
	if !IsPremiumSubscriber(byIcon) {
		t.Fatal("premium icon type should report premium")
	}
	byTooltip := gjson.Parse(`{"topbar":{"desktopTopbarRenderer":{"logo":{"topbarLogoRenderer":{"iconImage":{"iconType":"YOUTUBE_LOGO"},"tooltipText":{"runs":[{"text":"YouTube Premium"}]}}}}}}`)
	if !IsPremiumSubscriber(byTooltip) {
		t.Fatal("premium tooltip should report premium")
	}
	anonymous := gjson.Parse(`{"topbar":{"desktopTopbarRenderer":{"logo":{"topbarLogoRenderer":{"iconImage":{"iconType":"YOUTUBE_LOGO"}}}}}}`)
	if IsPremiumSubscriber(anonymous) {
		t.Fatal("plain logo should not report premium")
	}
	if IsPremiumSubscriber(gjson.Parse(`{}`)) {
		t.Fatal("missing topbar should not report premium")
	}
}

type pageTransport struct {
	req  *http.Request
	body string
}

func (p *pageTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	p.req = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(p.body)),
	}, nil
}

func TestFetchWatchPage(t *testing.T) {
	rt := &pageTransport{body: fixturePage}
	client := transport.New(&http.Client{Transport: rt})
	profile := innertube.NewRegistry().MustGet("tv")

	html, err := FetchWatchPage(context.Background(), client, profile, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchWatchPage: %v", err)
	}
	if html != fixturePage {
		t.Fatalf("unexpected page body")
	}

	req := rt.req
	if req.URL.Host != profile.Host {
		t.Fatalf("host=%q, want %q", req.URL.Host, profile.Host)
	}
	if req.URL.Path != "/watch" {
		t.Fatalf("path=%q, want %q", req.URL.Path, "/watch")
	}
	q := req.URL.Query()
	if q.Get("v") != "dQw4w9WgXcQ" {
		t.Fatalf("v=%q, want %q", q.Get("v"), "dQw4w9WgXcQ")
	}
	if q.Get("bpctr") != "9999999999" || q.Get("has_verified") != "1" {
		t.Fatalf("bypass params missing: %q", req.URL.RawQuery)
	}
	if ua := req.Header.Get("User-Agent"); ua != profile.AuthenticatedUserAgent {
		t.Fatalf("user agent=%q, want the persona's authenticated UA %q", ua, profile.AuthenticatedUserAgent)
	}
	if cookie := req.Header.Get("Cookie"); cookie != "" {
		t.Fatalf("watch page fetch must be anonymous, got cookie %q", cookie)
	}
}

func TestFetchWatchPageUserAgentPerPersona(t *testing.T) {
	registry := innertube.NewRegistry()
	tests := []struct {
		client string
		wantUA string
	}{
		// web defines no scrape UA at all.
		{client: "web", wantUA: ""},
		{client: "mweb", wantUA: registry.MustGet("mweb").Context.Client.UserAgent},
		{client: "tv", wantUA: registry.MustGet("tv").AuthenticatedUserAgent},
	}
	for _, tt := range tests {
		rt := &pageTransport{body: fixturePage}
		client := transport.New(&http.Client{Transport: rt})

		if _, err := FetchWatchPage(context.Background(), client, registry.MustGet(tt.client), "dQw4w9WgXcQ"); err != nil {
			t.Fatalf("FetchWatchPage(%s): %v", tt.client, err)
		}
		if got := rt.req.Header.Get("User-Agent"); got != tt.wantUA {
			t.Fatalf("client %s user agent=%q, want %q", tt.client, got, tt.wantUA)
		}
	}
}

func TestFetchWatchPageErrorStatus(t *testing.T) {
	client := transport.New(&http.Client{Transport: &statusTransport{status: http.StatusNotFound}})
	profile := innertube.NewRegistry().MustGet("web")

	if _, err := FetchWatchPage(context.Background(), client, profile, "dQw4w9WgXcQ"); err == nil {
		t.Fatal("expected error for 404 watch page")
	}
}

type statusTransport struct{ status int }

func (s *statusTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}
