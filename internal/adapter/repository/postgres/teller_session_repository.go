package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type TellerSessionRepository struct {
	db *sql.DB
}

func NewTellerSessionRepository(db *sql.DB) *TellerSessionRepository {
	return &TellerSessionRepository{db: db}
}

func (r *TellerSessionRepository) Get(ctx context.Context, sessionID string) (domain.TellerSession, error) {
	const query = `
SELECT id,
       teller_id,
       branch_id,
       branch_code,
       branch_name,
       workstation_id,
       status,
       cash_location_code,
       opened_at,
       closed_at
FROM teller_sessions
WHERE id = $1`

	var (
		session  domain.TellerSession
		closedAt sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.TellerID,
		&session.BranchID,
		&session.BranchCode,
		&session.BranchName,
		&session.WorkstationID,
		&session.Status,
		&session.CashLocationCode,
		&session.OpenedAt,
		&closedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TellerSession{}, domain.ErrRecordNotFound
		}
		return domain.TellerSession{}, fmt.Errorf("get teller session: %w", err)
	}
	if closedAt.Valid {
		value := closedAt.Time
		session.ClosedAt = &value
	}
	return session, nil
}
