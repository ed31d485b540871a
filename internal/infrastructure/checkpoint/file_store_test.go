package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftboard/draftboard/internal/domain/draft"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.gob")
	return NewFileStore(path, zerolog.Nop()), path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	committed := []draft.Action{
		draft.NewContent("line", []byte(`{"x":1}`), "alice"),
		draft.NewContent("rect", []byte(`{"w":2}`), "alice"),
	}
	require.NoError(t, store.Save(ctx, committed))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, committed[0].ActionID, loaded[0].ActionID)
	assert.Equal(t, committed[1].Payload, loaded[1].Payload)
}

func TestLoadMissingFileIsEmptyHistory(t *testing.T) {
	store, _ := newStore(t)
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadEmptyFileIsEmptyHistory(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadCorruptFileResetsToEmpty(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// The file was rewritten as a valid empty snapshot.
	loaded, err = store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEnsureCreatesFileOnce(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, store.Ensure())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Ensure must not clobber an existing snapshot.
	committed := []draft.Action{draft.NewContent("line", nil, "alice")}
	require.NoError(t, store.Save(context.Background(), committed))
	require.NoError(t, store.Ensure())
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []draft.Action{
		draft.NewContent("line", nil, "alice"),
		draft.NewContent("rect", nil, "alice"),
	}))
	replacement := []draft.Action{draft.NewContent("circle", nil, "bob")}
	require.NoError(t, store.Save(ctx, replacement))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, replacement[0].ActionID, loaded[0].ActionID)
}
