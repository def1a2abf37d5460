package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IMAP_HOST", "")
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")
}

func TestCredentialValidation(t *testing.T) {
	clearCredentialEnv(t)

	app := &cli.App{
		Name: "mailsift",
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Action: fetchCommand,
				Flags:  append(credentialFlags(), folderFlags()...),
			},
		},
	}

	t.Run("missing imap host fails", func(t *testing.T) {
		err := app.Run([]string{"mailsift", "fetch"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "imap-host")
	})

	t.Run("missing password fails", func(t *testing.T) {
		err := app.Run([]string{"mailsift", "fetch",
			"--imap-host", "imap.example.com", "--email", "u@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})
}

func TestCredentialFlagsReadEnv(t *testing.T) {
	clearCredentialEnv(t)

	for _, flag := range credentialFlags() {
		f, ok := flag.(*cli.StringFlag)
		require.True(t, ok)
		assert.NotEmpty(t, f.EnvVars, "flag %s should fall back to the environment", f.Name)
	}
}

func TestEmbeddingFlagDefaults(t *testing.T) {
	flags := embeddingFlags()

	byName := make(map[string]*cli.StringFlag)
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok {
			byName[f.Name] = f
		}
	}

	require.Contains(t, byName, "embedding-host")
	assert.Equal(t, "http://localhost:11434/v1", byName["embedding-host"].Value)

	require.Contains(t, byName, "embedding-model")
	assert.Equal(t, "mxbai-embed-large", byName["embedding-model"].Value)

	require.Contains(t, byName, "fallback-model")
	assert.Equal(t, "all-minilm", byName["fallback-model"].Value)
}

func TestSetup(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setup,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestNewHTTPServer(t *testing.T) {
	handler := http.NewServeMux()
	srv := newHTTPServer(":9090", handler)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, http.Handler(handler), srv.Handler)
	assert.Equal(t, readTimeout, srv.ReadTimeout, "read timeout must be set")
	assert.Equal(t, writeTimeout, srv.WriteTimeout, "write timeout must be set")
	assert.NoError(t, srv.Shutdown(context.Background()))
}
