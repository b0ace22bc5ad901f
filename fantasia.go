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


package fantasia

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frapercan/FANTASIA/config"
	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/embed/mock"
	"github.com/frapercan/FANTASIA/embed/openai"
	"github.com/frapercan/FANTASIA/embed/tei"
	"github.com/frapercan/FANTASIA/exportcsv"
	"github.com/frapercan/FANTASIA/pipeline"
	"github.com/frapercan/FANTASIA/storage"
	storagebadger "github.com/frapercan/FANTASIA/storage/badger"
)

// App wires the configured models, the run's output store, and the pipeline
// together. Every run opens a fresh store under the configured output
// directory, named from the prefix and the run timestamp.
type App struct {
	config    *config.Config
	registry  *embed.Registry
	store     storage.EmbeddingStore
	storePath string
	logger    *slog.Logger
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewApp validates cfg, builds the model registry, and opens the run's
// output store. Close releases the store.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	storePath := storage.StorePath(cfg.OutputDir, cfg.Prefix, time.Now())
	store, err := storagebadger.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("open output store: %w", err)
	}

	a := &App{
		config:    cfg,
		registry:  registry,
		store:     store,
		storePath: storePath,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Close releases the output store.
func (a *App) Close() error {
	return a.store.Close()
}

// Store returns the run's output store.
func (a *App) Store() storage.EmbeddingStore {
	return a.store
}

// StorePath returns the directory of the run's output store.
func (a *App) StorePath() string {
	return a.storePath
}

// Registry returns the configured model registry.
func (a *App) Registry() *embed.Registry {
	return a.registry
}

// Run executes the full pipeline: enqueue the input file, process every
// batch, store the embeddings. When fantasia_output_csv is configured, the
// manifest is written after the run.
func (a *App) Run(ctx context.Context) error {
	processor, err := pipeline.NewBatchProcessor(embed.NewComputer(a.registry), a.store)
	if err != nil {
		return err
	}

	dispatcherOpts := []pipeline.Option{
		pipeline.WithRetry(a.config.Embedding.MaxRetries, time.Duration(a.config.Embedding.RetryDelay)),
		pipeline.WithLogger(a.logger),
	}
	if a.config.Embedding.Workers > 0 {
		dispatcherOpts = append(dispatcherOpts, pipeline.WithPoolSize(a.config.Embedding.Workers))
	}
	dispatcher, err := pipeline.NewLocalDispatcher(processor, dispatcherOpts...)
	if err != nil {
		return err
	}
	defer dispatcher.Release()

	planner, err := pipeline.NewPlanner(a.registry)
	if err != nil {
		return err
	}

	embedder, err := pipeline.NewSequenceEmbedder(&pipeline.Config{
		InputPath:          a.config.InputFasta,
		Types:              a.config.Embedding.Types,
		QueueBatchSize:     a.config.SequenceQueuePackage,
		LengthFilter:       a.config.LengthFilter,
		RedundancyIdentity: a.config.RedundancyFilter,
		RedundancyFile:     a.config.RedundancyFile,
		CollapseExact:      a.config.ExactDuplicateFilter,
	}, planner, dispatcher, pipeline.WithEmbedderLogger(a.logger))
	if err != nil {
		return err
	}

	a.logger.Info("starting run", "input", a.config.InputFasta, "store", a.storePath)
	if err := embedder.Run(ctx); err != nil {
		return err
	}

	if a.config.OutputCSV != "" {
		exporter, err := exportcsv.NewExporter(a.store, nil)
		if err != nil {
			return err
		}
		rows, err := exporter.Export(ctx, a.config.OutputCSV)
		if err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		a.logger.Info("manifest written", "path", a.config.OutputCSV, "rows", rows)
	}

	return nil
}

// NewRegistry constructs one registered model per configured embedding
// type, wiring the provider named in the config. It is the registry NewApp
// uses, exported for callers that need inference without a full App, such
// as similarity queries against an existing store.
func NewRegistry(cfg *config.Config) (*embed.Registry, error) {
	registry := embed.NewRegistry()

	for _, typeID := range cfg.Embedding.Types {
		client, err := newClient(cfg, typeID)
		if err != nil {
			return nil, fmt.Errorf("client for type %d: %w", typeID, err)
		}

		model, err := embed.NewModel(embed.Descriptor{
			TypeID:    typeID,
			Name:      cfg.ModelFor(typeID).ModelName,
			BatchSize: cfg.InferenceBatchSize(typeID),
		}, client)
		if err != nil {
			return nil, fmt.Errorf("model for type %d: %w", typeID, err)
		}

		if err := registry.Register(model); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func newClient(cfg *config.Config, typeID core.EmbeddingTypeID) (embed.Client, error) {
	modelCfg := cfg.ModelFor(typeID)

	name := modelCfg.ModelName
	if name == "" {
		name = embed.DefaultModelName(typeID)
	}

	clientCfg := embed.NewConfig(
		embed.WithHost(modelCfg.Host),
		embed.WithModel(name),
		embed.WithAPIKeyEnv(modelCfg.APIKeyEnv),
		embed.WithRequestsPerSecond(cfg.Embedding.RequestsPerSecond),
	)

	switch modelCfg.Provider {
	case config.ProviderTEI:
		return tei.NewClient(clientCfg)
	case config.ProviderMock:
		return mock.NewMockClient(), nil
	default:
		return openai.NewClient(clientCfg)
	}
}
