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


package embed

import (
	"errors"
	"os"

	"golang.org/x/time/rate"
)

// Config holds connection settings for one inference endpoint.
type Config struct {
	// Host is the base URL of the inference service.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible
	// server, "http://localhost:8080" for text-embeddings-inference.
	Host string

	// Model is the model identifier requested from the service.
	// Example: "facebook/esm2_t33_650M_UR50D"
	Model string

	// APIKeyEnv names the environment variable holding the API token.
	// Empty means the service needs no authentication (local servers).
	APIKeyEnv string

	// RequestsPerSecond caps outbound requests to the service.
	// Zero disables limiting.
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the inference service base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKeyEnv sets the environment variable name for the API token.
func WithAPIKeyEnv(name string) ConfigOption {
	return func(c *Config) {
		c.APIKeyEnv = name
	}
}

// WithRequestsPerSecond sets the outbound request rate cap.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// DefaultConfig returns a Config pointing at a local inference server.
func DefaultConfig() *Config {
	return &Config{
		Host: "http://localhost:8080",
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
//
// Example:
//
//	cfg := embed.NewConfig(
//	    embed.WithHost("http://localhost:11434/v1"),
//	    embed.WithModel("facebook/esm2_t33_650M_UR50D"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("embed config: Host is required")
	}
	if c.Model == "" {
		return errors.New("embed config: Model is required")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("embed config: RequestsPerSecond must not be negative")
	}
	return nil
}

// Token resolves the API token from the environment. Services that need no
// authentication get the placeholder "none", which OpenAI-compatible local
// servers accept.
func (c *Config) Token() string {
	if c.APIKeyEnv != "" {
		if v := os.Getenv(c.APIKeyEnv); v != "" {
			return v
		}
	}
	return "none"
}

// Limiter builds a rate limiter from RequestsPerSecond, or nil when
// limiting is disabled.
func (c *Config) Limiter() *rate.Limiter {
	if c.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)
}
