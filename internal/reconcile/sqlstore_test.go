package reconcile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colortrainer/internal/subtype"
	"colortrainer/internal/vocabulary"
	"colortrainer/pkg/database"
	"colortrainer/pkg/models"
)

func TestEngine_SQLStoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "trainer.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db, nil))

	store := SQLStore{Subtypes: subtype.NewRepo(db), Terms: vocabulary.NewRepo(db)}
	client := fakeHub(t, map[string]string{
		"/seasons": crystalWinter,
		"/colors":  `{"data":{"colors":[{"term":"icy-blue","hex":"#DDF3FF","name":"Icy Blue"}]}}`,
	}, nil)
	engine := NewEngine(client, store)

	for i := 0; i < 2; i++ {
		resp := engine.Run(ctx, ScopeAll)
		require.True(t, resp.Success)
		assert.Equal(t, 1, resp.Results["taxonomy"].Synced)
		assert.Empty(t, resp.Results["taxonomy"].Errors)
		assert.Equal(t, 1, resp.Results["colors"].Synced)
	}

	st, err := store.Subtypes.GetBySlug(ctx, "crystal-winter")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "winter", st.Season)
	assert.Equal(t, "Crystal Winter", st.Name)

	n, err := store.Subtypes.Count(ctx, subtype.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	term, err := store.Terms.Get(ctx, models.TermColor, "icy-blue")
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "#DDF3FF", term.HexCode)
}

func TestEngine_SQLStoreClosedDB(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "trainer.db")})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := SQLStore{Subtypes: subtype.NewRepo(db), Terms: vocabulary.NewRepo(db)}
	resp := NewEngine(fakeHub(t, nil, nil), store).Run(context.Background(), ScopeAll)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "local store unavailable")
}
