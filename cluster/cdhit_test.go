package cluster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installFakeCDHit puts an executable cd-hit stub on PATH that copies its
// input file to its output file, mimicking a clustering run that keeps
// every sequence.
func installFakeCDHit(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\n# args: -i <in> -o <out> -c <identity>\ncp \"$2\" \"$4\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cd-hit"), []byte(script), 0o755))
	t.Setenv("PATH", dir)
}

func TestNewCDHit_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewCDHit()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestCDHit_Cluster(t *testing.T) {
	installFakeCDHit(t)

	input := filepath.Join(t.TempDir(), "input.fasta")
	output := filepath.Join(t.TempDir(), "reduced.fasta")
	require.NoError(t, os.WriteFile(input, []byte(">P1\nMKTA\n"), 0o644))

	ch, err := NewCDHit()
	require.NoError(t, err)

	got, err := ch.Cluster(context.Background(), input, output, 0.95)
	require.NoError(t, err)
	assert.Equal(t, output, got)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, ">P1\nMKTA\n", string(data))
}

func TestCDHit_Cluster_InvalidIdentity(t *testing.T) {
	installFakeCDHit(t)

	ch, err := NewCDHit()
	require.NoError(t, err)

	for _, identity := range []float64{0, -0.5, 1.5} {
		_, err := ch.Cluster(context.Background(), "in", "out", identity)
		assert.ErrorIs(t, err, ErrInvalidIdentity, "identity %v", identity)
	}
}

func TestCDHit_Cluster_CommandFailure(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/sh\necho 'fatal: bad input' >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cd-hit"), []byte(script), 0o755))
	t.Setenv("PATH", dir)

	ch, err := NewCDHit()
	require.NoError(t, err)

	_, err = ch.Cluster(context.Background(), "in", "out", 0.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal: bad input")
}

func TestFunc_Adapter(t *testing.T) {
	called := false
	var c Clusterer = Func(func(ctx context.Context, in, out string, identity float64) (string, error) {
		called = true
		return out, nil
	})

	got, err := c.Cluster(context.Background(), "a", "b", 0.9)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "b", got)
}
