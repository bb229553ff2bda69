package game

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarodreyes/gollmf/internal/course"
)

const threeHoles = `{
  "courseName": "Test Links",
  "description": "three holes",
  "holes": [
    {"holeNumber": 1, "targetPhrase": "Barclays Uniclo", "par": 4, "traps": ["uniqlo"]},
    {"holeNumber": 2, "targetPhrase": "Statue of Liberty", "par": 3},
    {"holeNumber": 3, "targetPhrase": "subway", "par": 2}
  ]
}`

func testCatalog(t *testing.T) *course.Catalog {
	t.Helper()
	c, err := course.Load(strings.NewReader(threeHoles), course.FormatJSON)
	require.NoError(t, err)
	return c
}

func TestNextHoleVisitsEachHoleOnce(t *testing.T) {
	c := testCatalog(t)
	s := NewSession(c, Rules{})

	for i := 0; i < c.HoleCount(); i++ {
		h, err := s.NextHole()
		require.NoError(t, err)
		assert.Equal(t, i, h.Index)
	}
	_, err := s.NextHole()
	assert.ErrorIs(t, err, ErrEndOfCourse)
	_, err = s.NextHole()
	assert.ErrorIs(t, err, ErrEndOfCourse)
	assert.Zero(t, s.Remaining())
}

func TestPlayFullCourse(t *testing.T) {
	c := testCatalog(t)
	s := NewSession(c, Rules{})

	play := func(prompts []string, response string) HoleResult {
		_, err := s.OpenNext()
		require.NoError(t, err)
		for _, p := range prompts {
			_, err := s.SubmitPrompt(p)
			require.NoError(t, err)
		}
		res, err := s.CloseHole(response)
		require.NoError(t, err)
		return res
	}

	r1 := play([]string{"What store sells clothes?", "Uniqlo competitor?"}, "Barclays Uniclo")
	assert.Equal(t, 6, r1.WordCount)
	assert.True(t, r1.Won)
	assert.Equal(t, 1, r1.TrapHits)

	r2 := play([]string{"green harbor lady"}, "The Statue of Liberty!")
	assert.Equal(t, 3, r2.WordCount)

	r3 := play([]string{"underground", "train", "NYC"}, "the metro")
	assert.False(t, r3.Won)

	assert.True(t, s.Finished())
	assert.Equal(t, 12, s.TotalScore())

	rep := s.Summary()
	assert.Equal(t, "Test Links", rep.Course)
	assert.True(t, rep.Complete)
	assert.Equal(t, 3, rep.HolesPlayed)
	assert.Equal(t, 2, rep.HolesWon)
	assert.Equal(t, 9, rep.TotalPar)
	parSum := 0
	for _, h := range c.Holes() {
		parSum += h.Par
	}
	assert.Equal(t, s.TotalScore()-parSum, rep.TotalScoreToPar)
	require.Len(t, rep.Holes, 3)
	assert.Equal(t, 2, rep.Holes[0].ScoreToPar)
	assert.Equal(t, "2 over par", rep.Holes[0].ParLabel)
	assert.Equal(t, 0, rep.Holes[1].ScoreToPar)
	assert.Equal(t, 1, rep.Holes[2].ScoreToPar)
	assert.False(t, rep.Holes[2].Won)
	assert.True(t, rep.Holes[2].WithinParAllowance)
}

func TestSummaryBeforeCourseIsDone(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})
	rep := s.Summary()
	assert.Empty(t, rep.Holes)
	assert.False(t, rep.Complete)
	assert.Equal(t, 9, rep.TotalPar)
	assert.Equal(t, -9, rep.TotalScoreToPar)

	_, err := s.OpenNext()
	require.NoError(t, err)
	_, err = s.SubmitPrompt("a b c")
	require.NoError(t, err)

	// In-progress words count toward the total but the hole is not reported yet.
	assert.Equal(t, 3, s.TotalScore())
	rep = s.Summary()
	assert.Empty(t, rep.Holes)
	assert.Equal(t, 3, rep.TotalScore)
	assert.Equal(t, -6, rep.TotalScoreToPar)
	assert.Equal(t, rep, s.Summary())
}

func TestSubmitToClosedHoleLeavesStateUnchanged(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})
	_, err := s.OpenNext()
	require.NoError(t, err)
	_, err = s.SubmitPrompt("a b")
	require.NoError(t, err)
	_, err = s.CloseHole("Barclays Uniclo")
	require.NoError(t, err)

	before := s.History()
	total := s.TotalScore()

	n, err := s.SubmitPrompt("late prompt")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, n)
	assert.Equal(t, before, s.History())
	assert.Equal(t, total, s.TotalScore())

	_, err = s.CloseHole("again")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, before, s.History())

	// The session is still playable.
	_, err = s.OpenNext()
	require.NoError(t, err)
	_, err = s.SubmitPrompt("harbor")
	assert.NoError(t, err)
}

func TestOpenHoleErrors(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})

	_, err := s.OpenHole(3)
	assert.ErrorIs(t, err, ErrHoleIndex)
	_, err = s.OpenHole(-1)
	assert.ErrorIs(t, err, ErrHoleIndex)
	_, ok := s.Current()
	assert.False(t, ok)

	h, err := s.OpenHole(1)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Number)

	_, err = s.OpenHole(2)
	assert.ErrorIs(t, err, ErrInvalidState)

	// OpenNext must not move the cursor when it fails.
	_, err = s.OpenNext()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 3, s.Remaining())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur.Hole.Index)
}

func TestClosedHoleCannotBeReopened(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})

	for i := 0; i < 3; i++ {
		_, err := s.OpenHole(0)
		if i > 0 {
			assert.ErrorIs(t, err, ErrInvalidState)
			continue
		}
		require.NoError(t, err)
		_, err = s.CloseHole("Barclays Uniclo")
		require.NoError(t, err)
	}
	assert.Len(t, s.History(), 1)
	assert.False(t, s.Finished())
	assert.False(t, s.Summary().Complete)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestOpenNextSkipsPlayedHoles(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})

	_, err := s.OpenHole(0)
	require.NoError(t, err)
	_, err = s.CloseHole("x")
	require.NoError(t, err)

	h, err := s.OpenNext()
	require.NoError(t, err)
	assert.Equal(t, 1, h.Index)
	_, err = s.CloseHole("x")
	require.NoError(t, err)

	_, err = s.OpenHole(2)
	require.NoError(t, err)
	_, err = s.CloseHole("x")
	require.NoError(t, err)
	assert.True(t, s.Finished())

	remaining := s.Remaining()
	_, err = s.OpenNext()
	assert.ErrorIs(t, err, ErrEndOfCourse)
	assert.Equal(t, remaining, s.Remaining())

	idx := lo.Map(s.History(), func(r HoleResult, _ int) int { return r.Index })
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestFinishedNeedsEveryHole(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})
	for i := 0; i < 3; i++ {
		s.RecordCompletedHole(HoleResult{Index: 0, Number: 1, Par: 4, WordCount: 1, Strokes: 1})
	}
	assert.False(t, s.Finished())
	assert.False(t, s.Summary().Complete)
}

func TestTrapPenaltyFlowsIntoTotals(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{TrapPenalty: 2})
	_, err := s.OpenNext()
	require.NoError(t, err)
	_, _ = s.SubmitPrompt("Uniqlo rival")
	cur, _ := s.Current()
	assert.Equal(t, 1, cur.TrapHits)

	res, err := s.CloseHole("Barclays Uniclo")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Penalty)
	assert.Equal(t, 4, res.Strokes)

	assert.Equal(t, 2, s.TotalWords())
	assert.Equal(t, 4, s.TotalScore())
	rep := s.Summary()
	assert.Equal(t, 2, rep.TrapPenalty)
	assert.Equal(t, 4-9, rep.TotalScoreToPar)
}

func TestRecordCompletedHoleAppendsInOrder(t *testing.T) {
	s := NewSession(testCatalog(t), Rules{})
	for i, n := range []int{3, 1, 2} {
		s.RecordCompletedHole(HoleResult{Index: i, Number: n, Par: 1, WordCount: n, Strokes: n})
	}
	h := s.History()
	require.Len(t, h, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{h[0].Number, h[1].Number, h[2].Number})
	assert.Equal(t, 6, s.TotalScore())
	assert.True(t, s.Finished())
}

func TestBeginResets(t *testing.T) {
	c := testCatalog(t)
	s := NewSession(c, Rules{})
	_, _ = s.OpenNext()
	_, _ = s.SubmitPrompt("a b c")
	_, _ = s.CloseHole("x")

	s.Begin(c)
	assert.Empty(t, s.History())
	assert.Zero(t, s.TotalScore())
	assert.Equal(t, 3, s.Remaining())
}

func TestSessionsAreIndependent(t *testing.T) {
	c := testCatalog(t)
	a := NewSession(c, Rules{})
	b := NewSession(c, Rules{})

	_, _ = a.OpenNext()
	_, _ = a.SubmitPrompt("one two")
	_, _ = a.CloseHole("Barclays Uniclo")

	assert.Equal(t, 2, a.TotalScore())
	assert.Zero(t, b.TotalScore())
	assert.Equal(t, 3, b.Remaining())
}
