package memoryengine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
	"github.com/pagebound/bookcatalog-go/bookcatalog/memoryengine"
	"github.com/pagebound/bookcatalog-go/testutil/fixtures"
)

func someBook(id string, opts ...fixtures.DataOption) bookcatalog.Book {
	return bookcatalog.BuildBook(id, fixtures.SomeBookData(opts...))
}

func Test_Insert_AssignsMonotonicIDs(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	first, err := store.Insert(ctx, someBook(""))
	require.NoError(t, err)
	second, err := store.Insert(ctx, someBook(""))
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)
}

func Test_Insert_DuplicateID(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	_, err := store.Insert(ctx, someBook("7"))
	require.NoError(t, err)

	_, err = store.Insert(ctx, someBook("7"))
	assert.ErrorIs(t, err, bookcatalog.ErrDuplicateBookID)
}

func Test_Insert_CallerProvidedNumericIDBumpsCounter(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	_, err := store.Insert(ctx, someBook("7"))
	require.NoError(t, err)

	assigned, err := store.Insert(ctx, someBook(""))
	require.NoError(t, err)

	assert.Equal(t, "8", assigned.ID)
}

func Test_Remove_DoesNotReuseIDs(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	first, err := store.Insert(ctx, someBook(""))
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, first.ID))

	second, err := store.Insert(ctx, someBook(""))
	require.NoError(t, err)

	assert.Equal(t, "2", second.ID)
}

func Test_Get_Unknown(t *testing.T) {
	store := memoryengine.New()

	_, err := store.Get(context.Background(), "999")

	assert.ErrorIs(t, err, bookcatalog.ErrBookNotFound)
}

func Test_Replace_Unknown(t *testing.T) {
	store := memoryengine.New()

	err := store.Replace(context.Background(), someBook("999"))

	assert.ErrorIs(t, err, bookcatalog.ErrBookNotFound)
}

func Test_Remove_Unknown(t *testing.T) {
	store := memoryengine.New()

	err := store.Remove(context.Background(), "999")

	assert.ErrorIs(t, err, bookcatalog.ErrBookNotFound)
}

func Test_RecordsDoNotAliasCallerState(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	input := someBook("", fixtures.WithTags("original"))
	inserted, err := store.Insert(ctx, input)
	require.NoError(t, err)

	// Mutating the caller's copy after insert must not leak into the store.
	input.Tags[0] = "mutated-input"
	inserted.Tags[0] = "mutated-output"

	stored, err := store.Get(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Tags[0])

	// Mutating a fetched book must not leak into the store either.
	stored.Tags[0] = "mutated-fetched"

	fetchedAgain, err := store.Get(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", fetchedAgain.Tags[0])
}

func Test_List_ReturnsInsertionOrder(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		_, err := store.Insert(ctx, someBook("", fixtures.WithTitle(title)))
		require.NoError(t, err)
	}

	books, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, books, 3)
	for i, title := range titles {
		assert.Equal(t, title, books[i].Title)
	}
}

func Test_List_OrderSurvivesRemoval(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := store.Insert(ctx, someBook("", fixtures.WithTitle(title)))
		require.NoError(t, err)
	}

	require.NoError(t, store.Remove(ctx, "2"))

	books, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "Third", books[1].Title)

	// The index still resolves the shifted record.
	third, err := store.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Third", third.Title)
}

func Test_ConcurrentInserts_UniqueIDs(t *testing.T) {
	store := memoryengine.New()
	ctx := context.Background()

	const workers = 50

	var wg sync.WaitGroup
	ids := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book, err := store.Insert(ctx, someBook(""))
			if err == nil {
				ids <- book.ID
			}
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}

	assert.Len(t, seen, workers)
}

func Test_CanceledContext(t *testing.T) {
	store := memoryengine.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Insert(ctx, someBook(""))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
