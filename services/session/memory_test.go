package session

import (
	"context"
	"testing"

	"careline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sess := models.NewSession("s1", nil)
	sess.Append("hello", "hi there")
	sess.MergeContext(map[string]any{"greeted": true})
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.History, got.History)
	assert.Equal(t, true, got.Context["greeted"])

	require.NoError(t, store.Delete(ctx, "s1"))
	gone, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := models.NewSession("s1", nil)
	sess.Append("one", "two")
	require.NoError(t, store.Put(ctx, sess))

	// Mutating the caller's copy after Put must not leak into the store.
	sess.Append("three", "four")
	sess.MergeContext(map[string]any{"dirty": true})

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.History, 2)
	assert.NotContains(t, got.Context, "dirty")

	// Mutating a read copy must not affect later reads.
	got.Append("five", "six")
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.History, 2)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Delete(context.Background(), "never-existed"))
}
