// internal/leaderboard/store.go
//
// Persistence for finished games.
// A game is written once, when its last hole closes: one game_results row plus
// one hole_results row per played hole, inside a single transaction. Signed-in
// players also get users.games_played and users.best_to_par updated in that tx.
//
// Ranking: score_to_par ASC, holes_won DESC, finished_at ASC (earlier wins ties).

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/jarodreyes/gollmf/internal/game"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ErrDuplicate is returned when a game ID was already recorded.
var ErrDuplicate = errors.New("game already recorded")

// ErrIncomplete is returned for a game that still has holes without a result.
var ErrIncomplete = errors.New("game not complete")

// Entry is a finished game ready to be stored.
type Entry struct {
	GameID      string
	UserID      string // empty for guests
	AnonymousID string
	PlayerName  string
	FinishedAt  time.Time
	Report      game.Report
	Prompts     []int // prompts submitted per played hole, aligned with Report.Holes
}

// NewEntry builds an Entry from a session's history and report.
func NewEntry(gameID string, s *game.Session, finishedAt time.Time) Entry {
	return Entry{
		GameID:     gameID,
		FinishedAt: finishedAt.UTC(),
		Report:     s.Summary(),
		Prompts:    lo.Map(s.History(), func(r game.HoleResult, _ int) int { return len(r.Prompts) }),
	}
}

// Row is one leaderboard line.
type Row struct {
	GameID      string    `json:"gameId"`
	Player      string    `json:"player"`
	Course      string    `json:"course"`
	Date        string    `json:"date"`
	TotalWords  int       `json:"totalWords"`
	TotalScore  int       `json:"totalScore"`
	TotalPar    int       `json:"totalPar"`
	ScoreToPar  int       `json:"scoreToPar"`
	HolesPlayed int       `json:"holesPlayed"`
	HolesWon    int       `json:"holesWon"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// HoleRow is one stored hole of a recorded game.
type HoleRow struct {
	Position     int    `json:"position"`
	HoleNumber   int    `json:"holeNumber"`
	TargetPhrase string `json:"targetPhrase"`
	Par          int    `json:"par"`
	WordCount    int    `json:"wordCount"`
	TrapHits     int    `json:"trapHits"`
	Strokes      int    `json:"strokes"`
	Won          bool   `json:"won"`
	Prompts      int    `json:"prompts"`
}

// Store reads and writes leaderboard rows.
type Store struct{ db *sql.DB }

// NewStore wraps an opened, migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Record stores a finished game.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.GameID == "" {
		return errors.New("record: missing game id")
	}
	if !e.Report.Complete {
		return fmt.Errorf("record %s: %w", e.GameID, ErrIncomplete)
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now().UTC()
	}
	rep := e.Report

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM game_results WHERE id=?`, e.GameID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("record %s: %w", e.GameID, ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record %s: %w", e.GameID, err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO game_results
            (id, user_id, anonymous_id, player_name, course_name, date,
             total_words, total_score, total_par, score_to_par,
             holes_played, holes_won, trap_penalty, finished_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.GameID, nullable(e.UserID), nullable(e.AnonymousID), e.PlayerName, rep.Course,
		DateKey(e.FinishedAt), rep.TotalWords, rep.TotalScore, rep.TotalPar, rep.TotalScoreToPar,
		rep.HolesPlayed, rep.HolesWon, rep.TrapPenalty, e.FinishedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert game %s: %w", e.GameID, err)
	}

	for i, h := range rep.Holes {
		prompts := 0
		if i < len(e.Prompts) {
			prompts = e.Prompts[i]
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO hole_results
                (game_id, position, hole_number, target_phrase, par,
                 word_count, trap_hits, strokes, won, prompts)
            VALUES (?,?,?,?,?,?,?,?,?,?)`,
			e.GameID, i, h.Number, h.Target, h.Par,
			h.WordCount, h.TrapHits, h.Strokes, h.Won, prompts,
		); err != nil {
			return fmt.Errorf("insert hole %d of %s: %w", h.Number, e.GameID, err)
		}
	}

	if e.UserID != "" {
		if err := bumpUser(ctx, tx, e.UserID, rep.TotalScoreToPar); err != nil {
			return fmt.Errorf("update user %s: %w", e.UserID, err)
		}
	}
	return tx.Commit()
}

// bumpUser increments games played and keeps the best (lowest) score to par.
func bumpUser(ctx context.Context, tx *sql.Tx, userID string, toPar int) error {
	_, err := tx.ExecContext(ctx, `
        UPDATE users
        SET games_played = games_played + 1,
            best_to_par  = CASE WHEN best_to_par IS NULL OR ? < best_to_par THEN ? ELSE best_to_par END
        WHERE id=?`, toPar, toPar, userID)
	return err
}

const rowColumns = `g.id, COALESCE(u.username, g.player_name), g.course_name, g.date,
       g.total_words, g.total_score, g.total_par, g.score_to_par,
       g.holes_played, g.holes_won, g.finished_at`

// Top returns the best games on a course. An empty course ranks across all courses.
func (s *Store) Top(ctx context.Context, course string, limit int) ([]Row, error) {
	q := `SELECT ` + rowColumns + `
        FROM game_results g LEFT JOIN users u ON u.id = g.user_id`
	args := []any{}
	if course != "" {
		q += ` WHERE g.course_name = ?`
		args = append(args, course)
	}
	q += ` ORDER BY g.score_to_par ASC, g.holes_won DESC, g.finished_at ASC LIMIT ?`
	args = append(args, clampLimit(limit))
	return s.query(ctx, q, args...)
}

// ForUser returns a player's most recent games.
func (s *Store) ForUser(ctx context.Context, userID string, limit int) ([]Row, error) {
	return s.query(ctx, `SELECT `+rowColumns+`
        FROM game_results g LEFT JOIN users u ON u.id = g.user_id
        WHERE g.user_id = ?
        ORDER BY g.finished_at DESC LIMIT ?`, userID, clampLimit(limit))
}

// Holes returns the stored holes of one game in play order.
func (s *Store) Holes(ctx context.Context, gameID string) ([]HoleRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT position, hole_number, target_phrase, par, word_count, trap_hits, strokes, won, prompts
        FROM hole_results WHERE game_id=? ORDER BY position`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HoleRow{}
	for rows.Next() {
		var h HoleRow
		if err := rows.Scan(&h.Position, &h.HoleNumber, &h.TargetPhrase, &h.Par,
			&h.WordCount, &h.TrapHits, &h.Strokes, &h.Won, &h.Prompts); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Claim moves a guest's recorded games onto a user account.
func (s *Store) Claim(ctx context.Context, anonymousID, userID string) (int64, error) {
	if anonymousID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE game_results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=? AND user_id IS NULL`,
		userID, anonymousID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		var finished string
		if err := rows.Scan(&r.GameID, &r.Player, &r.Course, &r.Date,
			&r.TotalWords, &r.TotalScore, &r.TotalPar, &r.ScoreToPar,
			&r.HolesPlayed, &r.HolesWon, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
