package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cdcsn/portal/internal/portal/models"
)

// SQLiteRepository keeps the session record in a single-row sqlite table.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (Record, error) {
	var (
		rec      Record
		userBlob []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user, is_authenticated FROM session WHERE id = 1`,
	).Scan(&rec.Token, &userBlob, &rec.IsAuthenticated)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load session record: %w", err)
	}

	if len(userBlob) > 0 {
		var u models.User
		if err := json.Unmarshal(userBlob, &u); err != nil {
			return Record{}, fmt.Errorf("failed to decode persisted user: %w", err)
		}
		rec.User = &u
	}
	return rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec Record) error {
	var (
		userBlob []byte
		err      error
	)
	if rec.User != nil {
		userBlob, err = json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user, is_authenticated) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user = excluded.user,
			is_authenticated = excluded.is_authenticated
	`, rec.Token, userBlob, rec.IsAuthenticated)
	if err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session record: %w", err)
	}
	return nil
}
