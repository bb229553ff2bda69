// internal/store/memory.go
//
// In-memory registry of live games.
// Each entry owns exactly one *game.Session plus who is playing it.
//
// Characteristics:
//   - Entries are keyed by a random UUID assigned on Create.
//   - The map is guarded by an RWMutex; each entry also carries its own mutex,
//     which callers hold while touching the session (the session itself is not
//     safe for concurrent use).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jarodreyes/gollmf/internal/game"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("game not found")

// Game is one live game. Lock it around any use of Session.
type Game struct {
	sync.Mutex

	ID          string
	UserID      string // empty for guests
	AnonymousID string
	PlayerName  string
	CreatedAt   time.Time
	Session     *game.Session
	Persisted   bool // set once the finished game is written to the leaderboard
}

// Store defines the registry of live games.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Create registers g under a fresh ID and returns it.
	Create(ctx context.Context, g *Game) (*Game, error)

	// Get retrieves a game by ID.
	Get(ctx context.Context, id string) (*Game, error)

	// Delete drops a game.
	Delete(ctx context.Context, id string) error

	// Len reports how many games are live.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Game)}
}

func (m *memory) Create(_ context.Context, g *Game) (*Game, error) {
	if g == nil || g.Session == nil {
		return nil, errors.New("store: game has no session")
	}
	g.ID = uuid.NewString()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return g, nil
}

func (m *memory) Get(_ context.Context, id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
