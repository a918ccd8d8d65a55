package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentGetOrComputeSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := OpenPersistent[string](dir)
	require.NoError(t, err)

	calls := 0
	v, err := c.GetOrCompute(context.Background(), "k", func(ctx context.Context) (string, error) {
		calls++
		return "persisted", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "persisted", v)
	require.NoError(t, c.Close())

	reopened, err := OpenPersistent[string](dir)
	require.NoError(t, err)
	defer reopened.Close()

	v2, err := reopened.GetOrCompute(context.Background(), "k", func(ctx context.Context) (string, error) {
		calls++
		return "recomputed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "persisted", v2, "value installed by a prior run must be visible without recomputing")
	assert.Equal(t, 1, calls)
}

func TestPersistentRemove(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenPersistent[int](dir)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetOrCompute(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Remove(context.Background(), "k"))

	calls := 0
	v, err := c.GetOrCompute(context.Background(), "k", func(ctx context.Context) (int, error) {
		calls++
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, calls)
}
