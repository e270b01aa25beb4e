// Package cli parses command-line options into a client configuration.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/famomatic/ytx/client"
	"github.com/famomatic/ytx/internal/pot"
)

// Options holds all command-line options.
type Options struct {
	// Input
	URLs []string

	// Network
	ProxyURL    string
	CookiesFile string // --cookies
	GeoBypassIP string // --geo-bypass-ip
	TimeoutMS   int    // --timeout-ms

	// Stream selection
	AudioOnly bool // --audio-only
	VideoOnly bool // --video-only
	Best      bool // --best

	// Advanced / Debug
	ClientsOverride string // --clients
	PoToken         string // --po-token
	PrintJSON       bool   // --print-json
	Verbose         bool   // --verbose
}

// ParseFlags parses argv into Options. Exits with usage on -h.
func ParseFlags(args []string) (Options, error) {
	opts := Options{}
	fs := flag.NewFlagSet("ytx", flag.ContinueOnError)

	fs.StringVar(&opts.ProxyURL, "proxy", "", "Use the specified HTTP/HTTPS/SOCKS proxy")
	fs.StringVar(&opts.CookiesFile, "cookies", "", "Netscape formatted cookies file")
	fs.StringVar(&opts.GeoBypassIP, "geo-bypass-ip", "", "Forwarded IP applied after a geo-restriction rejection")
	fs.IntVar(&opts.TimeoutMS, "timeout-ms", 30000, "Per-video request timeout in milliseconds (0 disables)")

	fs.BoolVar(&opts.AudioOnly, "audio-only", false, "List only audio-only streams")
	fs.BoolVar(&opts.VideoOnly, "video-only", false, "List only video-only streams")
	fs.BoolVar(&opts.Best, "best", false, "Print only the highest-bitrate stream")

	fs.StringVar(&opts.ClientsOverride, "clients", "", "Comma-separated client persona order override")
	fs.StringVar(&opts.PoToken, "po-token", "", "Static PO token (applied where the persona requires one)")
	fs.BoolVar(&opts.PrintJSON, "print-json", false, "Print stream descriptors as JSON")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Print warnings for failed persona attempts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytx [OPTIONS] URL [URL...]\n\n")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.URLs = fs.Args()
	return opts, nil
}

// ToClientConfig converts Options to client.Config.
func ToClientConfig(opts Options) (client.Config, error) {
	cfg := client.Config{
		ProxyURL:    opts.ProxyURL,
		GeoBypassIP: opts.GeoBypassIP,
	}
	if opts.TimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(opts.TimeoutMS) * time.Millisecond
	}
	if token := strings.TrimSpace(opts.PoToken); token != "" {
		cfg.PoTokenProvider = pot.Static(token)
	}
	if opts.ClientsOverride != "" {
		for _, id := range strings.Split(opts.ClientsOverride, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Clients = append(cfg.Clients, id)
			}
		}
	}
	if opts.CookiesFile != "" {
		f, err := os.Open(opts.CookiesFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to open cookies file: %w", err)
		}
		defer f.Close()
		jar, err := client.LoadCookieJar(f)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse cookies file: %w", err)
		}
		cfg.CookieJar = jar
	}
	return cfg, nil
}

// SelectStreams applies the selection flags to an extraction result.
func SelectStreams(opts Options, streams client.StreamList) client.StreamList {
	switch {
	case opts.AudioOnly:
		streams = streams.AudioOnly()
	case opts.VideoOnly:
		streams = streams.VideoOnly()
	}
	if opts.Best {
		sorted := streams.WithHighestBitrate()
		if first, ok := sorted.First(); ok {
			return client.NewStreamList([]client.Stream{first})
		}
	}
	return streams
}
