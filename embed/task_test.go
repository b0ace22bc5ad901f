package embed

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoClient returns one single-element vector per input, encoding the
// input's numeric suffix so tests can verify ordering.
func echoClient(t *testing.T) Client {
	t.Helper()
	return ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		out := make([][]float32, len(inputs))
		for i, in := range inputs {
			n, err := strconv.Atoi(in)
			if err != nil {
				return nil, err
			}
			out[i] = []float32{float32(n)}
		}
		return out, nil
	})
}

func TestRunTask_PreservesOrder(t *testing.T) {
	inputs := make([]string, 17)
	for i := range inputs {
		inputs[i] = strconv.Itoa(i)
	}

	vectors, err := RunTask(context.Background(), echoClient(t), inputs, 3)
	require.NoError(t, err)
	require.Len(t, vectors, len(inputs))
	for i, vec := range vectors {
		require.Len(t, vec, 1)
		assert.Equal(t, float32(i), vec[0], "vector %d out of order", i)
	}
}

func TestRunTask_SubBatchSizes(t *testing.T) {
	var mu sync.Mutex
	var sizes []int
	client := ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		mu.Lock()
		sizes = append(sizes, len(inputs))
		mu.Unlock()
		return make([][]float32, len(inputs)), nil
	})

	_, err := RunTask(context.Background(), client, make([]string, 10), 4)
	require.NoError(t, err)

	// 10 inputs at batch size 4: two full sub-batches plus a remainder.
	assert.ElementsMatch(t, []int{4, 4, 2}, sizes)
}

func TestRunTask_ZeroBatchSizeSendsEverything(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	client := ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return make([][]float32, len(inputs)), nil
	})

	_, err := RunTask(context.Background(), client, make([]string, 7), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunTask_EmptyInputs(t *testing.T) {
	client := ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		t.Fatal("client must not be called for empty inputs")
		return nil, nil
	})

	vectors, err := RunTask(context.Background(), client, nil, 8)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestRunTask_ClientError(t *testing.T) {
	boom := errors.New("inference exploded")
	client := ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		return nil, boom
	})

	_, err := RunTask(context.Background(), client, make([]string, 5), 2)
	assert.ErrorIs(t, err, boom)
}

func TestRunTask_CountMismatch(t *testing.T) {
	client := ClientFunc(func(ctx context.Context, inputs []string) ([][]float32, error) {
		return make([][]float32, len(inputs)-1), nil
	})

	_, err := RunTask(context.Background(), client, make([]string, 4), 4)
	assert.ErrorIs(t, err, ErrCountMismatch)
}
