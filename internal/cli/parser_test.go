package cli

import (
	"context"
	"testing"

	"github.com/famomatic/ytx/client"
)

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{
		"-clients", "web, android",
		"-audio-only",
		"-best",
		"https://youtu.be/dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if len(opts.URLs) != 1 || opts.URLs[0] != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("URLs = %v, want the single input URL", opts.URLs)
	}
	if !opts.AudioOnly || !opts.Best {
		t.Fatalf("selection flags = %+v, want audio-only and best set", opts)
	}

	cfg, err := ToClientConfig(opts)
	if err != nil {
		t.Fatalf("ToClientConfig() error = %v", err)
	}
	if len(cfg.Clients) != 2 || cfg.Clients[0] != "web" || cfg.Clients[1] != "android" {
		t.Fatalf("Clients = %v, want [web android]", cfg.Clients)
	}
}

func TestToClientConfig_StaticPoTokenProvider(t *testing.T) {
	cfg, err := ToClientConfig(Options{PoToken: "token-abc"})
	if err != nil {
		t.Fatalf("ToClientConfig() error = %v", err)
	}
	if cfg.PoTokenProvider == nil {
		t.Fatalf("expected PoTokenProvider to be configured")
	}
	token, err := cfg.PoTokenProvider.GetToken(context.Background(), "web")
	if err != nil {
		t.Fatalf("PoTokenProvider.GetToken() error = %v", err)
	}
	if token != "token-abc" {
		t.Fatalf("token = %q, want %q", token, "token-abc")
	}
}

func TestToClientConfig_EmptyPoTokenDoesNotConfigureProvider(t *testing.T) {
	cfg, err := ToClientConfig(Options{PoToken: "   "})
	if err != nil {
		t.Fatalf("ToClientConfig() error = %v", err)
	}
	if cfg.PoTokenProvider != nil {
		t.Fatalf("expected PoTokenProvider to be nil for empty override")
	}
}

func TestSelectStreams(t *testing.T) {
	streams := client.NewStreamList([]client.Stream{
		{Itag: "251", Quality: "audio_quality_medium", URL: "u1", TBR: 128},
		{Itag: "250", Quality: "audio_quality_low", URL: "u2", TBR: 64},
		{Itag: "137", Quality: "hd1080", URL: "u3", TBR: 4400},
	})

	audio := SelectStreams(Options{AudioOnly: true}, streams)
	if audio.Len() != 2 {
		t.Fatalf("audio-only Len() = %d, want 2", audio.Len())
	}

	best := SelectStreams(Options{AudioOnly: true, Best: true}, streams)
	if best.Len() != 1 {
		t.Fatalf("best Len() = %d, want 1", best.Len())
	}
	if s, _ := best.First(); s.Itag != "251" {
		t.Fatalf("best stream itag = %q, want %q", s.Itag, "251")
	}
}
