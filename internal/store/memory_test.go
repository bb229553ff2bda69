package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
)

func newGame(t *testing.T) *Game {
	t.Helper()
	c, err := course.Default()
	require.NoError(t, err)
	return &Game{Session: game.NewSession(c, game.Rules{})}
}

func TestCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g, err := st.Create(ctx, newGame(t))
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.False(t, g.CreatedAt.IsZero())

	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, g.ID))
	_, err = st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, g.ID), ErrNotFound)
}

func TestCreateRejectsEmptyGame(t *testing.T) {
	_, err := NewMemoryStore().Create(context.Background(), &Game{})
	assert.Error(t, err)
}

func TestGamesAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		g, err := st.Create(ctx, newGame(t))
		require.NoError(t, err)
		ids[i] = g.ID
	}
	for i, id := range ids {
		wg.Add(1)
		go func(n int, id string) {
			defer wg.Done()
			g, err := st.Get(ctx, id)
			if err != nil {
				return
			}
			g.Lock()
			defer g.Unlock()
			_, _ = g.Session.OpenNext()
			for j := 0; j < n; j++ {
				_, _ = g.Session.SubmitPrompt("word")
			}
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		g, err := st.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, i, g.Session.TotalScore())
	}
}
