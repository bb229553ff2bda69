// internal/auth/auth.go
//
// Player accounts.
// Responsibilities:
//   - Signup/login against the users table (bcrypt password hashes).
//   - HS256 JWT issue and verification (id + username claims, configurable TTL).
//   - Username/password validation rules.
//
// Signed-in players get their finished games attached to their account; guests
// are tracked by an anonymous cookie in the HTTP layer instead.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidSignup      = errors.New("invalid signup")
	ErrUserNotFound       = errors.New("user not found")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	BestToPar    *int      `json:"bestToPar,omitempty"`
}

// Claims is what a verified token carries.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Service owns account storage and token signing.
type Service struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
}

// NewService returns a Service. ttl <= 0 falls back to 14 days.
func NewService(db *sql.DB, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Service{db: db, secret: []byte(secret), ttl: ttl}
}

// Signup validates input, checks uniqueness, hashes the password, and inserts a new user.
func (s *Service) Signup(ctx context.Context, username, password string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, password); err != nil {
		return nil, err
	}
	if _, err := s.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login checks a username/password pair.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.FindByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindByUsername loads a user case-insensitively.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, games_played, best_to_par
        FROM users WHERE lower(username)=lower(?)`, username))
}

// FindByID loads a user by id.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at, games_played, best_to_par
        FROM users WHERE id=?`, id))
}

func (s *Service) scan(row *sql.Row) (*User, error) {
	var u User
	var created string
	var best sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &best); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	if best.Valid {
		v := int(best.Int64)
		u.BestToPar = &v
	}
	return &u, nil
}

// Sign issues a token for u and returns it with its expiry.
func (s *Service) Sign(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Parse verifies a token and returns its claims.
func (s *Service) Parse(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: username}, nil
}

// normalizeUsername trims whitespace; adjust here if you want stricter rules.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return fmt.Errorf("%w: password must be 8-100 chars", ErrInvalidSignup)
	}
	return nil
}
