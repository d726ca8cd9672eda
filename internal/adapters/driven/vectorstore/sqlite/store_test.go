package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "docs")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func chunk(source string, position int, text string) domain.Chunk {
	return domain.Chunk{
		ID:       uuid.NewString(),
		Text:     text,
		Position: position,
		Provenance: domain.Provenance{
			Source: source,
			Page:   1,
			Type:   domain.ContentText,
		},
		Embedding: []float32{0.1, 0.2, 0.3},
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips chunks with embeddings", func(t *testing.T) {
		store := newTestStore(t)

		want := chunk("a.pdf", 0, "first chunk")
		require.NoError(t, store.Upsert(ctx, []domain.Chunk{want}))

		got, err := store.ChunksBySource(ctx, "a.pdf")
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, want.ID, got[0].ID)
		assert.Equal(t, want.Text, got[0].Text)
		assert.Equal(t, want.Provenance, got[0].Provenance)
		assert.Equal(t, want.Embedding, got[0].Embedding)
	})

	t.Run("upsert with the same id replaces the row", func(t *testing.T) {
		store := newTestStore(t)

		c := chunk("a.pdf", 0, "old text")
		require.NoError(t, store.Upsert(ctx, []domain.Chunk{c}))

		c.Text = "new text"
		require.NoError(t, store.Upsert(ctx, []domain.Chunk{c}))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := store.ChunksBySource(ctx, "a.pdf")
		require.NoError(t, err)
		assert.Equal(t, "new text", got[0].Text)
	})

	t.Run("deletes only the named sources", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, []domain.Chunk{
			chunk("a.pdf", 0, "a0"),
			chunk("a.pdf", 1, "a1"),
			chunk("b.pdf", 0, "b0"),
		}))

		require.NoError(t, store.DeleteBySource(ctx, []string{"a.pdf"}))

		sources, err := store.Sources(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.pdf"}, sources)
	})

	t.Run("deleting nothing is a no-op", func(t *testing.T) {
		store := newTestStore(t)

		assert.NoError(t, store.DeleteBySource(ctx, nil))
	})

	t.Run("chunks come back in position order", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, []domain.Chunk{
			chunk("a.pdf", 2, "third"),
			chunk("a.pdf", 0, "first"),
			chunk("a.pdf", 1, "second"),
		}))

		got, err := store.ChunksBySource(ctx, "a.pdf")
		require.NoError(t, err)

		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Text)
		assert.Equal(t, "second", got[1].Text)
		assert.Equal(t, "third", got[2].Text)
	})

	t.Run("count over an empty store is zero", func(t *testing.T) {
		store := newTestStore(t)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("reopening preserves data", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir, "docs")
		require.NoError(t, err)
		require.NoError(t, store.Upsert(ctx, []domain.Chunk{chunk("a.pdf", 0, "persistent")}))
		require.NoError(t, store.Close())

		reopened, err := NewStore(dir, "docs")
		require.NoError(t, err)
		defer reopened.Close()

		count, err := reopened.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestFloat32Encoding(t *testing.T) {
	t.Run("round-trips", func(t *testing.T) {
		want := []float32{0, -1.5, 3.14159, 1e10}

		assert.Equal(t, want, bytesToFloat32Slice(float32SliceToBytes(want)))
	})

	t.Run("empty slices map to nil", func(t *testing.T) {
		assert.Nil(t, float32SliceToBytes(nil))
		assert.Nil(t, bytesToFloat32Slice(nil))
	})
}
