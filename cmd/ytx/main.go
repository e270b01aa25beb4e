package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/famomatic/ytx/client"
	"github.com/famomatic/ytx/internal/cli"
)

type warnLogger struct{}

func (warnLogger) Warnf(format string, args ...any) {
	log.Printf("WARNING: "+format, args...)
}

func main() {
	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if len(opts.URLs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ytx [OPTIONS] URL [URL...]")
		os.Exit(1)
	}

	cfg, err := cli.ToClientConfig(opts)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if opts.Verbose {
		cfg.Logger = warnLogger{}
	}
	c := client.New(cfg)

	exitCode := 0
	for _, input := range opts.URLs {
		if err := run(c, opts, input); err != nil {
			log.Printf("Error for %s: %v", input, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func run(c *client.Client, opts cli.Options, input string) error {
	resp, err := c.FetchStreams(context.Background(), input)
	if err != nil {
		return err
	}
	streams := cli.SelectStreams(opts, resp.Streams)

	if opts.PrintJSON {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Client    string          `json:"client"`
			PlayerURL string          `json:"player_url"`
			Streams   []client.Stream `json:"streams"`
		}{Client: resp.Client, PlayerURL: resp.PlayerURL, Streams: streams.All()})
	}

	fmt.Printf("Resolved via client %s (%d streams):\n", resp.Client, streams.Len())
	for _, s := range streams.All() {
		size := "-"
		if s.FileSize != nil {
			size = fmt.Sprintf("%d", *s.FileSize)
		}
		state := "url"
		if s.IsSignature() {
			state = "cipher"
		}
		fmt.Printf("[%s] %s %.0f kbps %s bytes %s (%s)\n",
			s.Itag, s.Quality, s.TBR, size, s.Ext(), state)
	}
	return nil
}
