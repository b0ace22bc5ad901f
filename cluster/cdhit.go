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


// Package cluster wraps external redundancy-clustering tools behind a
// narrow interface so the pipeline can be tested without invoking a real
// binary.
package cluster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
)

var (
	// ErrBinaryNotFound indicates the clustering binary is not on the
	// process search path. This is an environment error: surfaced before
	// any invocation is attempted, never retried.
	ErrBinaryNotFound = errors.New("clustering binary not found in PATH")

	// ErrInvalidIdentity indicates a similarity threshold outside (0, 1].
	ErrInvalidIdentity = errors.New("identity threshold must be in (0, 1]")
)

// Clusterer reduces a sequence file by similarity clustering, keeping one
// representative per cluster. It returns the path of the reduced file.
type Clusterer interface {
	Cluster(ctx context.Context, inputPath, outputPath string, identity float64) (string, error)
}

// Func adapts a plain function to the Clusterer interface.
type Func func(ctx context.Context, inputPath, outputPath string, identity float64) (string, error)

// Cluster calls f.
func (f Func) Cluster(ctx context.Context, inputPath, outputPath string, identity float64) (string, error) {
	return f(ctx, inputPath, outputPath, identity)
}

// CDHit invokes the cd-hit binary. The binary is located once at
// construction; a missing binary is reported then, before any run starts.
type CDHit struct {
	binary string
	logger *slog.Logger
}

var _ Clusterer = (*CDHit)(nil)

// NewCDHit locates cd-hit on the process search path.
func NewCDHit() (*CDHit, error) {
	path, err := exec.LookPath("cd-hit")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
	}
	return &CDHit{
		binary: path,
		logger: slog.Default().With("component", "cd-hit"),
	}, nil
}

// Cluster runs `cd-hit -i inputPath -o outputPath -c identity` and returns
// outputPath on success. Tool output is folded into the error on failure.
func (c *CDHit) Cluster(ctx context.Context, inputPath, outputPath string, identity float64) (string, error) {
	if identity <= 0 || identity > 1 {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentity, identity)
	}

	c.logger.Info("running redundancy clustering",
		"input", inputPath, "output", outputPath, "identity", identity)

	cmd := exec.CommandContext(ctx, c.binary,
		"-i", inputPath,
		"-o", outputPath,
		"-c", strconv.FormatFloat(identity, 'f', -1, 64),
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("cd-hit failed: %w (output: %s)", err, bytes.TrimSpace(out))
	}

	return outputPath, nil
}
