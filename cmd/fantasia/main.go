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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/frapercan/FANTASIA"
	"github.com/frapercan/FANTASIA/config"
	"github.com/frapercan/FANTASIA/core"
	"github.com/frapercan/FANTASIA/embed"
	"github.com/frapercan/FANTASIA/exportcsv"
	"github.com/frapercan/FANTASIA/similarity"
	storagebadger "github.com/frapercan/FANTASIA/storage/badger"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "fantasia",
		Usage: "Protein sequence embedding pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Embed every sequence of a FASTA file and store the results",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML run configuration",
						Value:   "config.yaml",
					},
					&cli.StringFlag{
						Name:  "input",
						Usage: "Override fantasia_input_fasta from the config",
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Override fantasia_prefix from the config",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Write the manifest CSV of an existing embedding store",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store",
						Aliases:  []string{"s"},
						Usage:    "Path to the embedding store directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Path of the manifest CSV to write",
						Required: true,
					},
				},
			},
			{
				Name:   "info",
				Usage:  "Summarize the contents of an existing embedding store",
				Action: infoCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store",
						Aliases:  []string{"s"},
						Usage:    "Path to the embedding store directory",
						Required: true,
					},
				},
			},
			{
				Name:   "similar",
				Usage:  "Rank the nearest stored neighbours of a query sequence",
				Action: similarCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store",
						Aliases:  []string{"s"},
						Usage:    "Path to the embedding store directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "type",
						Aliases:  []string{"t"},
						Usage:    "Embedding type id to query",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "accession",
						Aliases: []string{"a"},
						Usage:   "Query by the accession of a stored embedding",
					},
					&cli.StringFlag{
						Name:  "sequence",
						Usage: "Query by raw residues, embedded through the configured model",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML configuration providing the model for --sequence",
						Value:   "config.yaml",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Maximum number of hits",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Drop hits below this cosine similarity",
						Value: -1,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if input := c.String("input"); input != "" {
		cfg.InputFasta = input
	}
	if prefix := c.String("prefix"); prefix != "" {
		cfg.Prefix = prefix
	}

	app, err := fantasia.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Fprintf(os.Stderr, "Input: %s\n", cfg.InputFasta)
	fmt.Fprintf(os.Stderr, "Store: %s\n", app.StorePath())
	fmt.Fprintln(os.Stderr)

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Embeddings stored under %s\n", app.StorePath())
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := storagebadger.Open(c.String("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	exporter, err := exportcsv.NewExporter(store, os.Stderr)
	if err != nil {
		return err
	}

	if _, err := exporter.Export(ctx, c.String("out")); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

func infoCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := storagebadger.Open(c.String("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	total := 0
	perType := map[core.EmbeddingTypeID]int{}
	dims := map[core.EmbeddingTypeID]int{}
	err = store.ForEach(ctx, func(record *core.EmbeddingRecord) error {
		total++
		perType[record.EmbeddingTypeID]++
		dims[record.EmbeddingTypeID] = record.Dim()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Store: %s\n", c.String("store"))
	fmt.Printf("Records: %d\n", total)

	types := make([]core.EmbeddingTypeID, 0, len(perType))
	for typeID := range perType {
		types = append(types, typeID)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, typeID := range types {
		name := embed.DefaultModelName(typeID)
		if name == "" {
			name = "unknown model"
		}
		fmt.Printf("  type %d (%s): %d records, %d dimensions\n",
			typeID, name, perType[typeID], dims[typeID])
	}
	return nil
}

func similarCommand(c *cli.Context) error {
	ctx := context.Background()

	accession := c.String("accession")
	residues := c.String("sequence")
	if (accession == "") == (residues == "") {
		return errors.New("exactly one of --accession or --sequence is required")
	}

	store, err := storagebadger.Open(c.String("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	opts := []similarity.Option{
		similarity.WithMinScore(float32(c.Float64("min-score"))),
	}
	if residues != "" {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		registry, err := fantasia.NewRegistry(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, similarity.WithComputer(embed.NewComputer(registry)))
	}

	searcher, err := similarity.NewSearcher(store, opts...)
	if err != nil {
		return err
	}

	typeID := core.EmbeddingTypeID(c.Int("type"))
	var hits []similarity.Hit
	if accession != "" {
		hits, err = searcher.SearchByAccession(ctx, accession, typeID, c.Int("limit"))
	} else {
		hits, err = searcher.SearchBySequence(ctx, residues, typeID, c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(hits))
	for i, hit := range hits {
		fmt.Printf("%d: %s [%0.3f]\n", i, hit.Accession, hit.Score)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
