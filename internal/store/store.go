// Package store keeps the active planning session in a SQLite database so it
// survives between CLI invocations until the session is ended.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNoSession is returned by LoadActive when no session has been started.
var ErrNoSession = errors.New("no active session")

// Store provides SQLite-backed session persistence.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the session database location under the XDG cache dir.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "nestegg", "session.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "nestegg", "session.db")
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Open opens or creates the session database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession writes the session row and replaces its goals, preserving order.
func (s *Store) SaveSession(st session.State) error {
	if _, err := uuid.Parse(st.ID); err != nil {
		return fmt.Errorf("saving session: invalid id %q: %w", st.ID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeSession(tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceSession deletes oldID and saves st in one transaction. If anything
// fails the old session is left as it was.
func (s *Store) ReplaceSession(oldID string, st session.State) error {
	if _, err := uuid.Parse(st.ID); err != nil {
		return fmt.Errorf("saving session: invalid id %q: %w", st.ID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if oldID != st.ID {
		if _, err := tx.Exec("DELETE FROM sessions WHERE session_id = ?", oldID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
	}
	if err := writeSession(tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

func writeSession(tx *sql.Tx, st session.State) error {
	p := st.Params
	_, err := tx.Exec(`INSERT OR REPLACE INTO sessions
		(session_id, current_year, retirement_year, monthly_income, monthly_expenses,
		 retirement_rate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.CurrentYear, p.RetirementYear,
		money.Encode(p.MonthlyIncome), money.Encode(p.MonthlyExpenses), money.Encode(p.RetirementRate),
		formatTime(st.CreatedAt), formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM goals WHERE session_id = ?", st.ID); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}

	for i, g := range st.Goals {
		_, err = tx.Exec(`INSERT INTO goals
			(session_id, position, name, target_amount, target_year,
			 monthly_contribution, annual_rate, solved_for, created_year)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, i, g.Name, money.Encode(g.TargetAmount), g.TargetYear,
			money.Encode(g.MonthlyContribution), money.Encode(g.AnnualRate),
			string(g.SolvedFor), g.CreatedYear,
		)
		if err != nil {
			return fmt.Errorf("saving goal %q: %w", g.Name, err)
		}
	}
	return nil
}

// LoadActive returns the most recently updated session.
func (s *Store) LoadActive() (session.State, error) {
	var (
		st                     session.State
		income, expenses, rate string
		createdAt, updatedAt   string
	)
	err := s.db.QueryRow(`SELECT
		session_id, current_year, retirement_year, monthly_income, monthly_expenses,
		retirement_rate, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT 1`).Scan(
		&st.ID, &st.CurrentYear, &st.Params.RetirementYear, &income, &expenses,
		&rate, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return session.State{}, ErrNoSession
	}
	if err != nil {
		return session.State{}, fmt.Errorf("loading session: %w", err)
	}

	if st.Params.MonthlyIncome, err = money.Decode(income); err != nil {
		return session.State{}, fmt.Errorf("decoding monthly_income: %w", err)
	}
	if st.Params.MonthlyExpenses, err = money.Decode(expenses); err != nil {
		return session.State{}, fmt.Errorf("decoding monthly_expenses: %w", err)
	}
	if st.Params.RetirementRate, err = money.Decode(rate); err != nil {
		return session.State{}, fmt.Errorf("decoding retirement_rate: %w", err)
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	goals, err := s.loadGoals(st.ID)
	if err != nil {
		return session.State{}, err
	}
	st.Goals = goals
	return st, nil
}

func (s *Store) loadGoals(sessionID string) ([]model.Goal, error) {
	rows, err := s.db.Query(`SELECT
		name, target_amount, target_year, monthly_contribution, annual_rate,
		solved_for, created_year
		FROM goals WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var (
			g                    model.Goal
			amount, contrib, apr string
			solvedFor            string
		)
		if err := rows.Scan(&g.Name, &amount, &g.TargetYear, &contrib, &apr,
			&solvedFor, &g.CreatedYear); err != nil {
			return nil, err
		}
		if g.TargetAmount, err = money.Decode(amount); err != nil {
			return nil, fmt.Errorf("goal %q target_amount: %w", g.Name, err)
		}
		if g.MonthlyContribution, err = money.Decode(contrib); err != nil {
			return nil, fmt.Errorf("goal %q monthly_contribution: %w", g.Name, err)
		}
		if g.AnnualRate, err = money.Decode(apr); err != nil {
			return nil, fmt.Errorf("goal %q annual_rate: %w", g.Name, err)
		}
		g.SolvedFor = model.SolvedFor(solvedFor)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteSession removes a session and its goals.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE session_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSession
	}
	return nil
}

// GoalCount returns the number of stored goals for a session.
func (s *Store) GoalCount(id string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM goals WHERE session_id = ?", id).Scan(&n)
	return n, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
