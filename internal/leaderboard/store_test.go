package leaderboard

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
)

const twoHoles = `{
  "courseName": "Short Links",
  "holes": [
    {"holeNumber": 1, "targetPhrase": "Barclays Uniclo", "par": 4, "traps": ["uniqlo"]},
    {"holeNumber": 2, "targetPhrase": "subway", "par": 2}
  ]
}`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

// playedSession plays both holes; the prompts decide the score.
func playedSession(t *testing.T, hole1, hole2 string, win1 bool) *game.Session {
	t.Helper()
	c, err := course.Load(strings.NewReader(twoHoles), course.FormatJSON)
	require.NoError(t, err)
	s := game.NewSession(c, game.Rules{})

	_, err = s.OpenNext()
	require.NoError(t, err)
	_, err = s.SubmitPrompt(hole1)
	require.NoError(t, err)
	resp := "no idea"
	if win1 {
		resp = "Barclays Uniclo"
	}
	_, err = s.CloseHole(resp)
	require.NoError(t, err)

	_, err = s.OpenNext()
	require.NoError(t, err)
	_, err = s.SubmitPrompt(hole2)
	require.NoError(t, err)
	_, err = s.CloseHole("subway")
	require.NoError(t, err)
	require.True(t, s.Finished())
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRecordAndHoles(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))

	s := playedSession(t, "Uniqlo rival please", "train", true)
	e := NewEntry("g1", s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	e.PlayerName = "guest"
	require.NoError(t, st.Record(ctx, e))

	holes, err := st.Holes(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, holes, 2)
	assert.Equal(t, 1, holes[0].HoleNumber)
	assert.Equal(t, 3, holes[0].WordCount)
	assert.Equal(t, 1, holes[0].TrapHits)
	assert.True(t, holes[0].Won)
	assert.Equal(t, 1, holes[0].Prompts)
	assert.Equal(t, "subway", holes[1].TargetPhrase)

	top, err := st.Top(ctx, "Short Links", 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "guest", top[0].Player)
	assert.Equal(t, "2026-03-01", top[0].Date)
	assert.Equal(t, 4, top[0].TotalScore)
	assert.Equal(t, 6, top[0].TotalPar)
	assert.Equal(t, -2, top[0].ScoreToPar)
	assert.Equal(t, 2, top[0].HolesWon)

	err = st.Record(ctx, e)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRecordRejectsIncompleteGame(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))

	c, err := course.Load(strings.NewReader(twoHoles), course.FormatJSON)
	require.NoError(t, err)
	s := game.NewSession(c, game.Rules{})
	_, err = s.OpenNext()
	require.NoError(t, err)
	_, err = s.CloseHole("Barclays Uniclo")
	require.NoError(t, err)

	err = st.Record(ctx, NewEntry("half", s, time.Now()))
	assert.ErrorIs(t, err, ErrIncomplete)

	top, err := st.Top(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestTopRanking(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// worse: 3+1 words with hole 1 lost
	require.NoError(t, st.Record(ctx, NewEntry("lost", playedSession(t, "a b c", "x", false), base)))
	// best score, recorded later
	require.NoError(t, st.Record(ctx, NewEntry("late", playedSession(t, "a", "x", true), base.Add(time.Hour))))
	// same score as "late", recorded earlier
	require.NoError(t, st.Record(ctx, NewEntry("early", playedSession(t, "b", "y", true), base)))
	// same score to par as "late"/"early" but fewer holes won
	require.NoError(t, st.Record(ctx, NewEntry("fewer", playedSession(t, "c", "z", false), base)))

	top, err := st.Top(ctx, "", 0)
	require.NoError(t, err)
	ids := make([]string, len(top))
	for i, r := range top {
		ids[i] = r.GameID
	}
	assert.Equal(t, []string{"early", "late", "fewer", "lost"}, ids)

	top, err = st.Top(ctx, "Short Links", 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	top, err = st.Top(ctx, "Nowhere", 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecordUpdatesUserAndForUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := NewStore(db)
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1','ada','x','2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("g1", playedSession(t, "a b c", "x", true), base)
	e.UserID = "u1"
	require.NoError(t, st.Record(ctx, e))
	e = NewEntry("g2", playedSession(t, "a", "x", true), base.Add(time.Minute))
	e.UserID = "u1"
	require.NoError(t, st.Record(ctx, e))

	var played int
	var best sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT games_played, best_to_par FROM users WHERE id='u1'`).Scan(&played, &best))
	assert.Equal(t, 2, played)
	assert.Equal(t, int64(-4), best.Int64)

	rows, err := st.ForUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "g2", rows[0].GameID)
	assert.Equal(t, "ada", rows[0].Player)
}

func TestClaimMovesGuestGames(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := NewStore(db)
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1','ada','x','2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	e := NewEntry("g1", playedSession(t, "a", "x", true), time.Now())
	e.AnonymousID = "anon-1"
	require.NoError(t, st.Record(ctx, e))

	n, err := st.Claim(ctx, "anon-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := st.ForUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("east", 10*3600)
	assert.Equal(t, "2026-02-28", DateKey(time.Date(2026, 3, 1, 5, 0, 0, 0, loc)))
}
