package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// WizardStateRepository stores valuation wizard sessions as key/value rows
// scoped by session id.
type WizardStateRepository struct {
	db *sqlx.DB
}

func NewWizardStateRepository(db *sqlx.DB) *WizardStateRepository {
	return &WizardStateRepository{db: db}
}

func (r *WizardStateRepository) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(`SELECT state_key, value FROM wizard_state WHERE session_id = ?`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("load wizard state: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan wizard state: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *WizardStateRepository) Save(ctx context.Context, sessionID, key, value string) error {
	const q = `
		INSERT INTO wizard_state (session_id, state_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, state_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), sessionID, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save wizard state: %w", err)
	}
	return nil
}

func (r *WizardStateRepository) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM wizard_state WHERE session_id = ?`), sessionID); err != nil {
		return fmt.Errorf("clear wizard state: %w", err)
	}
	return nil
}

// Purge drops sessions untouched since before cutoff.
func (r *WizardStateRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM wizard_state WHERE session_id IN (
		SELECT session_id FROM wizard_state GROUP BY session_id HAVING MAX(updated_at) < ?)`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge wizard state: %w", err)
	}
	return res.RowsAffected()
}
