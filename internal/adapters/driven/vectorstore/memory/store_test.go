package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func chunk(id, source string) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		Text:       "content",
		Provenance: domain.Provenance{Source: source, Page: 1, Type: domain.ContentText},
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert replaces by id", func(t *testing.T) {
		store := NewStore()

		require.NoError(t, store.Upsert(ctx, []domain.Chunk{chunk("1", "a.pdf")}))
		require.NoError(t, store.Upsert(ctx, []domain.Chunk{chunk("1", "a.pdf")}))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("delete by source leaves other sources alone", func(t *testing.T) {
		store := NewStore()

		require.NoError(t, store.Upsert(ctx, []domain.Chunk{
			chunk("1", "a.pdf"),
			chunk("2", "a.pdf"),
			chunk("3", "b.pdf"),
		}))
		require.NoError(t, store.DeleteBySource(ctx, []string{"a.pdf"}))

		assert.Empty(t, store.BySource("a.pdf"))
		assert.Len(t, store.BySource("b.pdf"), 1)
	})
}
