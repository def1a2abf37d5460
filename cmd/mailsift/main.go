// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/mailsift"
	"github.com/poiesic/mailsift/ai"
	"github.com/poiesic/mailsift/ai/openai"
	"github.com/poiesic/mailsift/api"
	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
	"github.com/poiesic/mailsift/search"
)

func main() {
	app := &cli.App{
		Name:  "mailsift",
		Usage: "Semantic search over IMAP mailboxes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch the newest emails from a folder",
				Action: fetchCommand,
				Flags:  append(credentialFlags(), folderFlags()...),
			},
			{
				Name:   "search",
				Usage:  "Keyword search over a folder",
				Action: searchCommand,
				Flags: append(append(credentialFlags(), folderFlags()...),
					&cli.StringFlag{
						Name:     "keyword",
						Aliases:  []string{"k"},
						Usage:    "Keyword to match against subject, sender, date and body",
						Required: true,
					},
				),
			},
			{
				Name:   "semantic",
				Usage:  "Semantic search over a folder using embedding similarity",
				Action: semanticCommand,
				Flags: append(append(append(credentialFlags(), folderFlags()...), embeddingFlags()...),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Natural-language query",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
						Value: core.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score for a result",
						Value: float64(core.DefaultMinThreshold),
					},
					&cli.BoolFlag{
						Name:  "include-scores",
						Usage: "Print per-result similarity scores",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// credentialFlags cover mail account access. Values fall back to the
// environment, which setup pre-loads from an optional .env file.
func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "imap-host",
			Usage:   "IMAP server host",
			EnvVars: []string{"IMAP_HOST"},
		},
		&cli.StringFlag{
			Name:    "email",
			Usage:   "Mail account username",
			EnvVars: []string{"EMAIL_USER"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Mail account password",
			EnvVars: []string{"EMAIL_PASS"},
		},
	}
}

func folderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "folder",
			Aliases: []string{"f"},
			Usage:   "Mailbox folder to read",
			Value:   core.DefaultFolder,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of emails to fetch (0 for all)",
			Value:   50,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Primary embedding model name",
			Value: "mxbai-embed-large",
		},
		&cli.StringFlag{
			Name:  "fallback-model",
			Usage: "Fallback embedding model name (empty disables the fallback)",
			Value: "all-minilm",
		},
	}
}

func paramsFromFlags(c *cli.Context) (mailbox.Params, error) {
	params := mailbox.Params{
		Host:     c.String("imap-host"),
		Username: c.String("email"),
		Password: c.String("password"),
	}
	if params.Host == "" {
		return params, fmt.Errorf("imap-host is required (flag or IMAP_HOST)")
	}
	if params.Username == "" || params.Password == "" {
		return params, fmt.Errorf("email and password are required (flags or EMAIL_USER/EMAIL_PASS)")
	}
	return params, nil
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithPrimaryModel(c.String("embedding-model")),
		ai.WithFallbackModel(c.String("fallback-model")),
	)
}

func fetchCommand(c *cli.Context) error {
	params, err := paramsFromFlags(c)
	if err != nil {
		return err
	}

	client, err := mailsift.NewClient(params)
	if err != nil {
		return err
	}
	defer client.Close()

	emails, err := client.FetchEmails(context.Background(), c.String("folder"), c.Int("limit"))
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d emails from %s\n", len(emails), c.String("folder"))
	for i, email := range emails {
		fmt.Printf("%d: '%s' from %s (%s)\n", i, email.Subject, email.From, email.Date)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	params, err := paramsFromFlags(c)
	if err != nil {
		return err
	}

	client, err := mailsift.NewClient(params)
	if err != nil {
		return err
	}
	defer client.Close()

	matches, err := client.SearchKeyword(context.Background(), c.String("folder"), c.Int("limit"), c.String("keyword"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d matches for '%s'\n", len(matches), c.String("keyword"))
	for i, email := range matches {
		fmt.Printf("%d: '%s' from %s (%s)\n", i, email.Subject, email.From, email.Date)
	}
	return nil
}

func semanticCommand(c *cli.Context) error {
	params, err := paramsFromFlags(c)
	if err != nil {
		return err
	}

	client, err := mailsift.NewClient(params, mailsift.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return err
	}
	defer client.Close()

	request := &core.SearchRequest{
		Query:         c.String("query"),
		TopK:          c.Int("top-k"),
		MinThreshold:  float32(c.Float64("threshold")),
		Folder:        c.String("folder"),
		IncludeScores: c.Bool("include-scores"),
	}

	result, err := client.SearchSemantic(context.Background(), request, c.Int("limit"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits for '%s' (model %s, threshold %0.2f)\n",
		result.TotalFound, result.Query, result.Model, result.ThresholdUsed)
	if result.Degraded {
		fmt.Println("warning: results come from the fallback model")
	}
	for i, hit := range result.Results {
		if request.IncludeScores {
			fmt.Printf("%d: '%s' from %s [%0.3f %s]\n", i, hit.Email.Subject, hit.Email.From, hit.Score, hit.Category)
		} else {
			fmt.Printf("%d: '%s' from %s\n", i, hit.Email.Subject, hit.Email.From)
		}
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	provider, err := openai.NewProvider(aiConfigFromFlags(c))
	if err != nil {
		return err
	}

	searcher, err := search.NewSearcher(provider)
	if err != nil {
		return err
	}

	factory := func(params mailbox.Params) (api.EmailSource, error) {
		return mailbox.NewClient(params)
	}

	server, err := api.NewServer(factory, searcher)
	if err != nil {
		return err
	}

	srv := newHTTPServer(c.String("addr"), server.Router())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %v", err)
	}
	slog.Info("server stopped")
	return nil
}

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// newHTTPServer builds the server with the timeouts the search handlers
// need; semantic search embeds the whole corpus inside one request, so the
// write timeout is generous.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

func setup(c *cli.Context) error {
	// Optional .env next to the binary; missing file is fine.
	_ = godotenv.Load()

	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
