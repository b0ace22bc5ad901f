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


// Package fasta reads protein sequence records from FASTA files.
//
// The reader preserves file order, uppercases residues, and takes the
// accession from the first whitespace-delimited field of each header line.
// Plain and gzip-compressed input are both supported. Filtering (length,
// redundancy) is intentionally not done here; it belongs to the pipeline.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/frapercan/FANTASIA/core"
)

var (
	// ErrNoHeader indicates sequence data before the first '>' header line.
	ErrNoHeader = errors.New("fasta: sequence data before first header")

	// ErrEmptyHeader indicates a '>' header line with no accession field.
	ErrEmptyHeader = errors.New("fasta: header line has no accession")
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

// Read parses every record from the FASTA file at path, in file order.
// An empty file yields an empty slice and no error.
func Read(path string) ([]core.Sequence, error) {
	var out []core.Sequence
	err := ReadFunc(context.Background(), path, func(seq core.Sequence) error {
		out = append(out, seq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFunc streams records from the FASTA file at path, calling emit once
// per record in file order. It is restartable (a plain function over a
// path) and cancelable between records via ctx. An error returned by emit
// stops the scan and is returned unchanged.
func ReadFunc(ctx context.Context, path string, emit func(core.Sequence) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		accession string
		residues  = make([]byte, 0, 1<<12)
		sawHeader bool
		lineNo    int
	)

	flush := func() error {
		if !sawHeader {
			return nil
		}
		return emit(core.Sequence{
			Accession: accession,
			Residues:  string(residues),
		})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			accession = headerAccession(line[1:])
			if accession == "" {
				return fmt.Errorf("%w (line %d)", ErrEmptyHeader, lineNo)
			}
			sawHeader = true
			residues = residues[:0]
			continue
		}

		if !sawHeader {
			return fmt.Errorf("%w (line %d)", ErrNoHeader, lineNo)
		}
		residues = append(residues, bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// headerAccession extracts the accession from a header line (without '>'):
// the first whitespace-delimited field, matching Bio.SeqIO's record id.
func headerAccession(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
