package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/docloom/docloom"
	"github.com/docloom/docloom/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func record(n int) *docloom.PageRecord {
	return &docloom.PageRecord{
		SourceURL:   fmt.Sprintf("https://docs.test/page/%d", n),
		Title:       fmt.Sprintf("Page %d", n),
		Filename:    fmt.Sprintf("page-%d.md", n),
		ContentHash: fmt.Sprintf("%016x", n),
		Depth:       n,
	}
}

func TestManifestService(t *testing.T) {
	t.Parallel()

	t.Run("records pages and finds them in insertion order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewManifestService(mustOpenDB(t))
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			require.NoError(t, svc.RecordPage(ctx, record(i)))
		}

		recs, err := svc.FindPages(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		for i, rec := range recs {
			assert.Equal(t, fmt.Sprintf("https://docs.test/page/%d", i), rec.SourceURL)
			assert.Equal(t, fmt.Sprintf("Page %d", i), rec.Title)
			assert.Equal(t, fmt.Sprintf("page-%d.md", i), rec.Filename)
			assert.Equal(t, i, rec.Depth)
			assert.NotEmpty(t, rec.ID)
			assert.False(t, rec.FetchedAt.IsZero())
		}
	})

	t.Run("assigns a fresh ID per record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewManifestService(mustOpenDB(t))
		ctx := context.Background()

		a, b := record(1), record(2)
		require.NoError(t, svc.RecordPage(ctx, a))
		require.NoError(t, svc.RecordPage(ctx, b))

		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewManifestService(mustOpenDB(t))

		err := svc.RecordPage(context.Background(), &docloom.PageRecord{Title: "no url"})

		assert.Equal(t, docloom.EINVALID, docloom.ErrorCode(err))
	})

	t.Run("finds nothing in an empty manifest", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewManifestService(mustOpenDB(t))

		recs, err := svc.FindPages(context.Background())

		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}
