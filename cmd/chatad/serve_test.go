package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	main "github.com/fwojciec/chatad/cmd/chatad"
	"github.com/fwojciec/chatad/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("http server stops when the context ends", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     ctx,
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			Catalog: catalogSource(testCatalog()),
			Fetcher: &mock.DocumentFetcher{},
		}

		err := (&main.ServeCmd{Addr: "127.0.0.1:0"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "Serving MCP on http://127.0.0.1:0")
	})

	t.Run("bad address is an error", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			Catalog: catalogSource(testCatalog()),
			Fetcher: &mock.DocumentFetcher{},
		}

		err := (&main.ServeCmd{Addr: "not-an-address"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
