package fasta

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frapercan/FANTASIA/core"
)

const sample = `>sp|P12345|AATM_RABIT Aspartate aminotransferase
MKTAYIAKQR
QISFVKSHFS
>Q67890
mdskgss

>P00001 third record
GATTACA
`

func writeFasta(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRead(t *testing.T) {
	path := writeFasta(t, "sample.fasta", sample)

	seqs, err := Read(path)
	require.NoError(t, err)
	require.Len(t, seqs, 3)

	assert.Equal(t, "sp|P12345|AATM_RABIT", seqs[0].Accession)
	assert.Equal(t, "MKTAYIAKQRQISFVKSHFS", seqs[0].Residues)

	assert.Equal(t, "Q67890", seqs[1].Accession)
	assert.Equal(t, "MDSKGSS", seqs[1].Residues, "residues should be uppercased")

	assert.Equal(t, "P00001", seqs[2].Accession)
	assert.Equal(t, "GATTACA", seqs[2].Residues)
}

func TestRead_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.fasta.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	seqs, err := Read(path)
	require.NoError(t, err)
	require.Len(t, seqs, 3)
	assert.Equal(t, "sp|P12345|AATM_RABIT", seqs[0].Accession)
}

func TestRead_GzipMagicWithoutSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.fasta")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	seqs, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, seqs, 3)
}

func TestRead_EmptyFile(t *testing.T) {
	path := writeFasta(t, "empty.fasta", "")

	seqs, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, seqs)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.fasta"))
	require.Error(t, err)
}

func TestRead_DataBeforeHeader(t *testing.T) {
	path := writeFasta(t, "bad.fasta", "MKTA\n>P1\nMKTA\n")

	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestRead_EmptyHeader(t *testing.T) {
	path := writeFasta(t, "bad.fasta", ">\nMKTA\n")

	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyHeader)
}

func TestRead_RecordWithoutResidues(t *testing.T) {
	path := writeFasta(t, "gap.fasta", ">P1\n>P2\nMKTA\n")

	seqs, err := Read(path)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "P1", seqs[0].Accession)
	assert.Empty(t, seqs[0].Residues)
	assert.Equal(t, "MKTA", seqs[1].Residues)
}

func TestReadFunc_EmitError(t *testing.T) {
	path := writeFasta(t, "sample.fasta", sample)

	sentinel := errors.New("stop")
	var seen int
	err := ReadFunc(context.Background(), path, func(core.Sequence) error {
		seen++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, seen, "scan should stop at the first emit error")
}

func TestReadFunc_Canceled(t *testing.T) {
	path := writeFasta(t, "sample.fasta", sample)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ReadFunc(ctx, path, func(core.Sequence) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
