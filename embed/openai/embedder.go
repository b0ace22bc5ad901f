package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frapercan/FANTASIA/embed"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Client implements embed.Client using OpenAI-compatible embedding APIs.
type Client struct {
	embedder embeddings.Embedder
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ embed.Client = (*Client)(nil)

// newClient is an internal constructor that returns the concrete type.
func newClient(config *embed.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" satisfies local OpenAI-compatible services that don't require
	// authentication.
	client, err := openai.New(
		openai.WithBaseURL(normalizeHost(config.Host)),
		openai.WithToken(config.Token()),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Client{
		embedder: embedder,
		limiter:  config.Limiter(),
		logger:   slog.Default().With("component", "openai-embedder", "model", config.Model),
	}, nil
}

// NewClient creates a client using the provided configuration.
//
// Returns embed.Client interface to enforce abstraction.
func NewClient(config *embed.Config) (embed.Client, error) {
	return newClient(config)
}

// EmbedBatch generates vector embeddings for a batch of shaped inputs.
func (c *Client) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("generating embeddings", "count", len(inputs))

	vectors, err := c.embedder.EmbedDocuments(ctx, inputs)
	if err != nil {
		c.logger.Error("failed to generate embeddings", "count", len(inputs), "err", err)
		return nil, err
	}
	return vectors, nil
}

// normalizeHost ensures the /v1 suffix OpenAI-compatible APIs mount the
// protocol under (Ollama, LocalAI, vLLM, etc).
func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}
