package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateSession persists a new session to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, ownerID string, session *models.Session) error {
	// Generate ID if not set
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertSession(ctx, tx, ownerID, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, including participants, expenses
// and paid settlement keys.
func (s *SQLiteStore) GetSession(ctx context.Context, ownerID, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM sessions WHERE id = ? AND owner_id = ?",
		sessionID, ownerID,
	).Scan(&session.ID, &session.Name, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := loadSessionContents(ctx, s.db, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions retrieves all sessions of an owner, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM sessions WHERE owner_id = ? ORDER BY created_at, rowid",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		if err := rows.Scan(&session.ID, &session.Name, &session.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for _, session := range sessions {
		if err := loadSessionContents(ctx, s.db, session); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// CountSessions returns how many sessions the owner has.
func (s *SQLiteStore) CountSessions(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE owner_id = ?", ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// SaveSession replaces the name and contents of an existing session.
func (s *SQLiteStore) SaveSession(ctx context.Context, ownerID string, session *models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET name = ? WHERE id = ? AND owner_id = ?",
		session.Name, session.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", session.ID, storage.ErrNotFound)
	}

	// Replace children wholesale; expense children cascade from expenses.
	for _, table := range []string{"participants", "expenses", "paid_settlements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", session.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertSessionContents(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSession removes a session by ID.
func (s *SQLiteStore) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ? AND owner_id = ?", sessionID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	return nil
}

// ReplaceTrip swaps the owner's trip name and every session in one
// transaction. Imported session ids already used by another owner are
// replaced with fresh ones.
func (s *SQLiteStore) ReplaceTrip(ctx context.Context, ownerID, name string, sessions []*models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE owner_id = ?", ownerID); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	if err := setTripName(ctx, tx, ownerID, name); err != nil {
		return err
	}

	for _, session := range sessions {
		var taken int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", session.ID).Scan(&taken)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("failed to check session id: %w", err)
		default:
			session.ID = ""
		}
		if session.ID == "" {
			session.ID = uuid.New().String()
		}
		if session.CreatedAt == 0 {
			session.CreatedAt = time.Now().UnixMilli()
		}
		if err := insertSession(ctx, tx, ownerID, session); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSession(ctx context.Context, q dbtx, ownerID string, session *models.Session) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO sessions (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		session.ID, ownerID, session.Name, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return insertSessionContents(ctx, q, session)
}

func insertSessionContents(ctx context.Context, q dbtx, session *models.Session) error {
	for i, p := range session.Participants {
		_, err := q.ExecContext(ctx,
			"INSERT INTO participants (session_id, id, name, position) VALUES (?, ?, ?, ?)",
			session.ID, int64(p.ID), p.Name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, e := range session.Expenses {
		_, err := q.ExecContext(ctx,
			`INSERT INTO expenses (session_id, id, title, payer_id, amount, split_mode, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID, e.ID, e.Title, int64(e.PayerID), e.Amount, string(e.SplitMode), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for j, id := range e.InvolvedIDs {
			_, err := q.ExecContext(ctx,
				"INSERT INTO expense_involved (session_id, expense_id, participant_id, position) VALUES (?, ?, ?, ?)",
				session.ID, e.ID, int64(id), j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert involved participant: %w", err)
			}
		}

		for id, amount := range e.CustomSplits {
			_, err := q.ExecContext(ctx,
				"INSERT INTO expense_splits (session_id, expense_id, participant_id, amount) VALUES (?, ?, ?, ?)",
				session.ID, e.ID, int64(id), amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert custom split: %w", err)
			}
		}
	}

	for i, key := range session.PaidSettlements {
		_, err := q.ExecContext(ctx,
			"INSERT INTO paid_settlements (session_id, settlement_key, position) VALUES (?, ?, ?)",
			session.ID, key, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert paid settlement: %w", err)
		}
	}

	return nil
}

// loadSessionContents fills participants, expenses and paid settlements.
func loadSessionContents(ctx context.Context, q dbtx, session *models.Session) error {
	// Participants
	rows, err := q.QueryContext(ctx,
		"SELECT id, name FROM participants WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	for rows.Next() {
		var p ledger.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		session.Participants = append(session.Participants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	// Expenses
	rows, err = q.QueryContext(ctx,
		"SELECT id, title, payer_id, amount, split_mode FROM expenses WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	index := make(map[int64]int)
	for rows.Next() {
		var e ledger.Expense
		var mode string
		if err := rows.Scan(&e.ID, &e.Title, &e.PayerID, &e.Amount, &mode); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitMode = ledger.SplitMode(mode)
		index[e.ID] = len(session.Expenses)
		session.Expenses = append(session.Expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Involved participants per expense
	rows, err = q.QueryContext(ctx,
		"SELECT expense_id, participant_id FROM expense_involved WHERE session_id = ? ORDER BY expense_id, position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get involved participants: %w", err)
	}
	for rows.Next() {
		var expenseID int64
		var id ledger.ParticipantID
		if err := rows.Scan(&expenseID, &id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan involved participant: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			session.Expenses[i].InvolvedIDs = append(session.Expenses[i].InvolvedIDs, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate involved participants: %w", err)
	}

	// Custom splits per expense
	rows, err = q.QueryContext(ctx,
		"SELECT expense_id, participant_id, amount FROM expense_splits WHERE session_id = ?",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get custom splits: %w", err)
	}
	for rows.Next() {
		var expenseID int64
		var id ledger.ParticipantID
		var amount float64
		if err := rows.Scan(&expenseID, &id, &amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan custom split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			e := &session.Expenses[i]
			if e.CustomSplits == nil {
				e.CustomSplits = make(map[ledger.ParticipantID]float64)
			}
			e.CustomSplits[id] = amount
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate custom splits: %w", err)
	}

	// Paid settlements
	rows, err = q.QueryContext(ctx,
		"SELECT settlement_key FROM paid_settlements WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get paid settlements: %w", err)
	}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan paid settlement: %w", err)
		}
		session.PaidSettlements = append(session.PaidSettlements, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate paid settlements: %w", err)
	}

	return nil
}
