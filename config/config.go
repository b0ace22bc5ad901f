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


// Package config reads the YAML run configuration. Key names follow the
// original FANTASIA configuration surface, so existing config files keep
// working.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frapercan/FANTASIA/core"
)

// Inference providers accepted in model configurations.
const (
	ProviderOpenAI = "openai"
	ProviderTEI    = "tei"
	ProviderMock   = "mock"
)

// Duration is a time.Duration that unmarshals from YAML strings like "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ModelConfig wires one embedding type to an inference endpoint.
type ModelConfig struct {
	Provider  string `yaml:"provider"`
	Host      string `yaml:"host"`
	ModelName string `yaml:"model_name"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// EmbeddingConfig configures the process stage.
type EmbeddingConfig struct {
	// Types lists the requested embedding types, in publish order.
	Types []core.EmbeddingTypeID `yaml:"types"`

	// BatchSize maps embedding type to its inference batch size.
	// Unlisted types use the default.
	BatchSize map[core.EmbeddingTypeID]int `yaml:"batch_size"`

	// Workers is the local dispatcher pool size. Zero picks a size from
	// the machine's CPU count.
	Workers int `yaml:"workers"`

	// MaxRetries is the number of delivery attempts per batch.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base delay between attempts, doubling each retry.
	RetryDelay Duration `yaml:"retry_delay"`

	// RequestsPerSecond caps outbound inference requests per endpoint.
	// Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Models holds per-type endpoint wiring. Unlisted types use an
	// OpenAI-compatible local server with the catalog model name.
	Models map[core.EmbeddingTypeID]ModelConfig `yaml:"models"`
}

// Config is the root run configuration.
type Config struct {
	InputFasta           string          `yaml:"fantasia_input_fasta"`
	OutputCSV            string          `yaml:"fantasia_output_csv"`
	OutputDir            string          `yaml:"fantasia_output_h5"`
	Prefix               string          `yaml:"fantasia_prefix"`
	LengthFilter         int             `yaml:"length_filter"`
	RedundancyFilter     float64         `yaml:"redundancy_filter"`
	RedundancyFile       string          `yaml:"redundancy_file"`
	ExactDuplicateFilter bool            `yaml:"exact_duplicate_filter"`
	SequenceQueuePackage int             `yaml:"sequence_queue_package"`
	Embedding            EmbeddingConfig `yaml:"embedding"`
}

// Load reads a config from path and applies defaults to unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when a field is not set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Prefix == "" {
		cfg.Prefix = "default"
	}
	if cfg.SequenceQueuePackage == 0 {
		cfg.SequenceQueuePackage = 64
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 3
	}
	if cfg.Embedding.RetryDelay == 0 {
		cfg.Embedding.RetryDelay = Duration(1 * time.Second)
	}
}

// Validate checks the settings a pipeline run depends on.
func (c *Config) Validate() error {
	if c.InputFasta == "" {
		return errors.New("config: fantasia_input_fasta is required")
	}
	if c.OutputDir == "" {
		return errors.New("config: fantasia_output_h5 is required")
	}
	if len(c.Embedding.Types) == 0 {
		return errors.New("config: embedding.types must list at least one type")
	}
	if c.LengthFilter < 0 {
		return errors.New("config: length_filter must not be negative")
	}
	if c.RedundancyFilter < 0 || c.RedundancyFilter > 1 {
		return errors.New("config: redundancy_filter must be in (0, 1]")
	}
	if c.RedundancyFilter > 0 && c.RedundancyFile == "" {
		return errors.New("config: redundancy_file is required when redundancy_filter is set")
	}
	if c.SequenceQueuePackage <= 0 {
		return errors.New("config: sequence_queue_package must be positive")
	}
	if c.Embedding.MaxRetries <= 0 {
		return errors.New("config: embedding.max_retries must be positive")
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return errors.New("config: embedding.requests_per_second must not be negative")
	}
	for typeID, size := range c.Embedding.BatchSize {
		if size <= 0 {
			return fmt.Errorf("config: embedding.batch_size[%d] must be positive", typeID)
		}
	}
	for typeID, model := range c.Embedding.Models {
		switch model.Provider {
		case "", ProviderOpenAI, ProviderTEI, ProviderMock:
		default:
			return fmt.Errorf("config: embedding.models[%d].provider %q is not recognized", typeID, model.Provider)
		}
	}
	return nil
}

// InferenceBatchSize returns the configured inference batch size for
// typeID, or the default of 16.
func (c *Config) InferenceBatchSize(typeID core.EmbeddingTypeID) int {
	if size, ok := c.Embedding.BatchSize[typeID]; ok {
		return size
	}
	return 16
}

// ModelFor returns the endpoint wiring for typeID. Unlisted types get an
// OpenAI-compatible default with an empty model name, which resolves to the
// catalog name at registry construction.
func (c *Config) ModelFor(typeID core.EmbeddingTypeID) ModelConfig {
	model := c.Embedding.Models[typeID]
	if model.Provider == "" {
		model.Provider = ProviderOpenAI
	}
	if model.Host == "" {
		model.Host = "http://localhost:8080"
	}
	return model
}
