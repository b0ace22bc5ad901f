// Copyright 2025 The FANTASIA Authors
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


// Package tei implements embed.Client against Hugging Face
// text-embeddings-inference servers.
//
// TEI serves exactly one model chosen at server startup, so the configured
// model name selects which server to point at rather than appearing in
// requests.
package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frapercan/FANTASIA/embed"
	"golang.org/x/time/rate"
)

// Client implements embed.Client using the text-embeddings-inference
// HTTP API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ embed.Client = (*Client)(nil)

// NewClient creates a client using the provided configuration.
//
// Returns embed.Client interface to enforce abstraction.
func NewClient(config *embed.Config) (embed.Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimSuffix(config.Host, "/"),
		token:   config.Token(),
		httpc:   &http.Client{Timeout: 5 * time.Minute},
		limiter: config.Limiter(),
		logger:  slog.Default().With("component", "tei-embedder", "model", config.Model),
	}, nil
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// EmbedBatch generates vector embeddings for a batch of shaped inputs by
// POSTing them to the server's /embed endpoint.
func (c *Client) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(embedRequest{Inputs: inputs})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" && c.token != "none" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("generating embeddings", "count", len(inputs))

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("embedding request failed", "count", len(inputs), "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding API returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	return vectors, nil
}
