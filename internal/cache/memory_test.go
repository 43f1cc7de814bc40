package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1", testStruct{Name: "Bob", Age: 41}, 0))

	var out testStruct
	found, err := c.Get(ctx, "user:1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testStruct{Name: "Bob", Age: 41}, out)
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory(10, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyUserCount, int64(3), 0))

	assert.Eventually(t, func() bool {
		var out int64
		found, err := c.Get(ctx, KeyUserCount, &out)
		return err == nil && !found
	}, time.Second, 10*time.Millisecond)
}

func TestMemory_CapacityEvictsOldest(t *testing.T) {
	c := NewMemory(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, c.Len())
	var out int
	found, err := c.Get(ctx, "a", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Invalidate(t *testing.T) {
	c := NewMemory(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyUserCount, int64(1), 0))
	require.NoError(t, c.Set(ctx, KeyActiveUserCount, int64(1), 0))
	require.NoError(t, c.Invalidate(ctx, KeyUserCount, KeyActiveUserCount))
	assert.Equal(t, 0, c.Len())
}

func TestMemory_SetUnmarshalable(t *testing.T) {
	c := NewMemory(10, time.Minute)
	err := c.Set(context.Background(), "ch", make(chan int), 0)
	assert.Error(t, err)
}
