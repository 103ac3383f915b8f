package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/session"
)

func openTestStore(t *testing.T) (*session.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	_, err := session.OpenSQLiteStore("  ")
	require.Error(t, err)
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "an empty store loads as no session, not an error")
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	identity := &models.Identity{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, store.Save(ctx, &models.Session{Token: "tok-1", Identity: identity}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-1", loaded.Token)
	require.NotNil(t, loaded.Identity)
	assert.Equal(t, identity.ID, loaded.Identity.ID)
	assert.Equal(t, "ada@example.com", loaded.Identity.Email)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	require.NoError(t, store.Save(ctx, &models.Session{Token: "old", Identity: &models.Identity{ID: uuid.New()}}))
	require.NoError(t, store.Save(ctx, &models.Session{Token: "new"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "new", loaded.Token)
	assert.Nil(t, loaded.Identity, "a save without identity drops the old snapshot")
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &models.Session{Token: "durable"}))
	require.NoError(t, store.Close())

	reopened, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "durable", loaded.Token)
}

func TestSQLiteStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	require.NoError(t, store.Save(ctx, &models.Session{Token: "tok"}))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
