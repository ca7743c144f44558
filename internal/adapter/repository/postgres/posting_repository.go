package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
	"github.com/lib/pq"
)

type PostingRepository struct {
	db *sql.DB
}

func NewPostingRepository(db *sql.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// CommitBatch persists the teller transaction, batch, legs, account
// transactions and cash movement in one database transaction. The unique
// index on posting_batches.request_id arbitrates idempotency races; a
// reversal commit additionally marks the original transaction reversed,
// guarded so a transaction can be reversed at most once.
func (r *PostingRepository) CommitBatch(ctx context.Context, commit domain.BatchCommit) (domain.CommittedBatch, error) {
	logger.Info("posting repository commit batch", logger.Fields{
		"requestId":       commit.RequestID,
		"transactionType": commit.Transaction.Type,
		"legCount":        len(commit.Legs),
	})

	metadata, err := json.Marshal(normalizeMetadata(commit.Metadata))
	if err != nil {
		return domain.CommittedBatch{}, fmt.Errorf("marshal batch metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("posting repository begin tx failed", err, nil)
		return domain.CommittedBatch{}, fmt.Errorf("begin posting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result := domain.CommittedBatch{Transaction: commit.Transaction}

	const insertTransaction = `
INSERT INTO teller_transactions (
	type,
	amount_cents,
	currency,
	status,
	actor_id,
	session_id,
	branch_id,
	workstation_id,
	approver_id,
	reversal_of_transaction_id,
	reversal_reason_code,
	reversal_memo
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING id, posted_at`

	if err = tx.QueryRowContext(
		ctx,
		insertTransaction,
		commit.Transaction.Type,
		commit.Transaction.AmountCents,
		commit.Transaction.Currency,
		commit.Transaction.Status,
		commit.Transaction.ActorID,
		commit.Transaction.SessionID,
		commit.Transaction.BranchID,
		commit.Transaction.WorkstationID,
		commit.Transaction.ApproverID,
		commit.ReversalOfTransactionID,
		commit.Transaction.ReversalReasonCode,
		commit.Transaction.ReversalMemo,
	).Scan(&result.Transaction.ID, &result.Transaction.PostedAt); err != nil {
		logger.Error("posting repository insert transaction failed", err, logger.Fields{
			"requestId": commit.RequestID,
		})
		return domain.CommittedBatch{}, fmt.Errorf("insert teller transaction: %w", err)
	}
	result.Transaction.ReversalOfTransactionID = commit.ReversalOfTransactionID

	const insertBatch = `
INSERT INTO posting_batches (
	transaction_id,
	request_id,
	currency,
	status,
	metadata,
	reversal_of_batch_id
) VALUES (
	$1, $2, $3, $4, $5, $6
)
RETURNING id, committed_at`

	batch := domain.PostingBatch{
		TransactionID:     result.Transaction.ID,
		RequestID:         commit.RequestID,
		Currency:          commit.Transaction.Currency,
		Status:            domain.BatchStatusCommitted,
		Metadata:          commit.Metadata,
		ReversalOfBatchID: commit.ReversalOfBatchID,
	}
	if err = tx.QueryRowContext(
		ctx,
		insertBatch,
		batch.TransactionID,
		batch.RequestID,
		batch.Currency,
		batch.Status,
		metadata,
		batch.ReversalOfBatchID,
	).Scan(&batch.ID, &batch.CommittedAt); err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrDuplicateRequestID
			return domain.CommittedBatch{}, err
		}
		logger.Error("posting repository insert batch failed", err, logger.Fields{
			"requestId": commit.RequestID,
		})
		return domain.CommittedBatch{}, fmt.Errorf("insert posting batch: %w", err)
	}
	result.Batch = batch

	const insertLeg = `
INSERT INTO posting_legs (
	batch_id,
	side,
	reference,
	amount_cents,
	position,
	reference_type,
	reference_identifier,
	check_routing_number,
	check_account_number,
	check_number,
	check_type
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
RETURNING id`

	for _, leg := range commit.Legs {
		row := domain.PostingLeg{
			BatchID:             batch.ID,
			Side:                leg.Side,
			Reference:           leg.Reference,
			AmountCents:         leg.AmountCents,
			Position:            leg.Position,
			ReferenceType:       leg.Parsed.Type,
			ReferenceIdentifier: leg.Parsed.Identifier,
			CheckRoutingNumber:  leg.Parsed.CheckRoutingNumber,
			CheckAccountNumber:  leg.Parsed.CheckAccountNumber,
			CheckNumber:         leg.Parsed.CheckNumber,
			CheckType:           leg.Parsed.CheckType,
		}
		if err = tx.QueryRowContext(
			ctx,
			insertLeg,
			row.BatchID,
			row.Side,
			row.Reference,
			row.AmountCents,
			row.Position,
			row.ReferenceType,
			row.ReferenceIdentifier,
			row.CheckRoutingNumber,
			row.CheckAccountNumber,
			row.CheckNumber,
			row.CheckType,
		).Scan(&row.ID); err != nil {
			logger.Error("posting repository insert leg failed", err, logger.Fields{
				"requestId": commit.RequestID,
				"position":  leg.Position,
			})
			return domain.CommittedBatch{}, fmt.Errorf("insert posting leg %d: %w", leg.Position, err)
		}
		result.Legs = append(result.Legs, row)
	}

	const insertAccountTransaction = `
INSERT INTO account_transactions (
	batch_id,
	leg_position,
	direction,
	amount_cents,
	reference,
	account_id,
	description
) VALUES (
	$1, $2, $3, $4, $5, $6, $7
)
RETURNING id, created_at`

	for _, entry := range commit.AccountTransactions {
		var accountID *string
		accountID, err = r.resolveAccountID(ctx, tx, entry.Reference)
		if err != nil {
			return domain.CommittedBatch{}, err
		}

		row := domain.AccountTransaction{
			BatchID:     batch.ID,
			LegPosition: entry.LegPosition,
			Direction:   entry.Direction,
			AmountCents: entry.AmountCents,
			Reference:   entry.Reference,
			AccountID:   accountID,
			Description: entry.Description,
		}
		if err = tx.QueryRowContext(
			ctx,
			insertAccountTransaction,
			row.BatchID,
			row.LegPosition,
			row.Direction,
			row.AmountCents,
			row.Reference,
			row.AccountID,
			row.Description,
		).Scan(&row.ID, &row.CreatedAt); err != nil {
			logger.Error("posting repository insert account transaction failed", err, logger.Fields{
				"requestId":   commit.RequestID,
				"legPosition": entry.LegPosition,
			})
			return domain.CommittedBatch{}, fmt.Errorf("insert account transaction: %w", err)
		}
		result.AccountTransactions = append(result.AccountTransactions, row)
	}

	if commit.CashMovement != nil {
		const insertCashMovement = `
INSERT INTO cash_movements (
	batch_id,
	direction,
	amount_cents
) VALUES (
	$1, $2, $3
)
RETURNING id, created_at`

		movement := domain.CashMovement{
			BatchID:     batch.ID,
			Direction:   commit.CashMovement.Direction,
			AmountCents: commit.CashMovement.AmountCents,
		}
		if err = tx.QueryRowContext(
			ctx,
			insertCashMovement,
			movement.BatchID,
			movement.Direction,
			movement.AmountCents,
		).Scan(&movement.ID, &movement.CreatedAt); err != nil {
			logger.Error("posting repository insert cash movement failed", err, logger.Fields{
				"requestId": commit.RequestID,
			})
			return domain.CommittedBatch{}, fmt.Errorf("insert cash movement: %w", err)
		}
		result.CashMovement = &movement
	}

	if commit.ReversalOfTransactionID != nil {
		const markReversed = `
UPDATE teller_transactions
SET reversed_by_transaction_id = $2,
    reversed_at = NOW()
WHERE id = $1
  AND reversed_by_transaction_id IS NULL`

		var res sql.Result
		res, err = tx.ExecContext(ctx, markReversed, *commit.ReversalOfTransactionID, result.Transaction.ID)
		if err != nil {
			logger.Error("posting repository mark reversed failed", err, logger.Fields{
				"originalTransactionId": *commit.ReversalOfTransactionID,
			})
			return domain.CommittedBatch{}, fmt.Errorf("mark original transaction reversed: %w", err)
		}
		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return domain.CommittedBatch{}, fmt.Errorf("mark original transaction reversed: %w", err)
		}
		if affected == 0 {
			err = domain.ErrAlreadyReversed
			return domain.CommittedBatch{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		logger.Error("posting repository commit tx failed", err, logger.Fields{
			"requestId": commit.RequestID,
		})
		return domain.CommittedBatch{}, fmt.Errorf("commit posting transaction: %w", err)
	}

	logger.Info("posting repository commit batch success", logger.Fields{
		"requestId":     commit.RequestID,
		"batchId":       batch.ID,
		"transactionId": result.Transaction.ID,
	})
	return result, nil
}

func (r *PostingRepository) GetBatchByRequestID(ctx context.Context, requestID string) (domain.CommittedBatch, error) {
	return r.getBatch(ctx, `WHERE b.request_id = $1`, requestID)
}

func (r *PostingRepository) GetBatchByTransactionID(ctx context.Context, transactionID string) (domain.CommittedBatch, error) {
	return r.getBatch(ctx, `WHERE b.transaction_id = $1`, transactionID)
}

func (r *PostingRepository) GetTransaction(ctx context.Context, transactionID string) (domain.TellerTransaction, error) {
	const query = `
SELECT id,
       type,
       amount_cents,
       currency,
       status,
       actor_id,
       session_id,
       branch_id,
       workstation_id,
       approver_id,
       posted_at,
       reversal_of_transaction_id,
       reversed_by_transaction_id,
       reversed_at,
       reversal_reason_code,
       reversal_memo
FROM teller_transactions
WHERE id = $1`

	var (
		txn        domain.TellerTransaction
		reversedAt sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&txn.ID,
		&txn.Type,
		&txn.AmountCents,
		&txn.Currency,
		&txn.Status,
		&txn.ActorID,
		&txn.SessionID,
		&txn.BranchID,
		&txn.WorkstationID,
		&txn.ApproverID,
		&txn.PostedAt,
		&txn.ReversalOfTransactionID,
		&txn.ReversedByTransactionID,
		&reversedAt,
		&txn.ReversalReasonCode,
		&txn.ReversalMemo,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TellerTransaction{}, domain.ErrRecordNotFound
		}
		return domain.TellerTransaction{}, fmt.Errorf("get teller transaction: %w", err)
	}
	if reversedAt.Valid {
		value := reversedAt.Time
		txn.ReversedAt = &value
	}
	return txn, nil
}

func (r *PostingRepository) getBatch(ctx context.Context, where string, arg any) (domain.CommittedBatch, error) {
	query := `
SELECT b.id,
       b.transaction_id,
       b.request_id,
       b.currency,
       b.status,
       b.metadata,
       b.committed_at,
       b.reversal_of_batch_id
FROM posting_batches b
` + where

	var (
		batch       domain.PostingBatch
		rawMetadata []byte
	)
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&batch.ID,
		&batch.TransactionID,
		&batch.RequestID,
		&batch.Currency,
		&batch.Status,
		&rawMetadata,
		&batch.CommittedAt,
		&batch.ReversalOfBatchID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CommittedBatch{}, domain.ErrRecordNotFound
		}
		return domain.CommittedBatch{}, fmt.Errorf("get posting batch: %w", err)
	}
	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &batch.Metadata); err != nil {
			return domain.CommittedBatch{}, fmt.Errorf("unmarshal batch metadata: %w", err)
		}
	}

	transaction, err := r.GetTransaction(ctx, batch.TransactionID)
	if err != nil {
		return domain.CommittedBatch{}, err
	}

	legs, err := r.getLegs(ctx, batch.ID)
	if err != nil {
		return domain.CommittedBatch{}, err
	}

	accountTransactions, err := r.getAccountTransactions(ctx, batch.ID)
	if err != nil {
		return domain.CommittedBatch{}, err
	}

	movement, err := r.getCashMovement(ctx, batch.ID)
	if err != nil {
		return domain.CommittedBatch{}, err
	}

	return domain.CommittedBatch{
		Transaction:         transaction,
		Batch:               batch,
		Legs:                legs,
		AccountTransactions: accountTransactions,
		CashMovement:        movement,
	}, nil
}

func (r *PostingRepository) getLegs(ctx context.Context, batchID string) ([]domain.PostingLeg, error) {
	const query = `
SELECT id,
       batch_id,
       side,
       reference,
       amount_cents,
       position,
       reference_type,
       reference_identifier,
       check_routing_number,
       check_account_number,
       check_number,
       check_type
FROM posting_legs
WHERE batch_id = $1
ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("get posting legs: %w", err)
	}
	defer rows.Close()

	var legs []domain.PostingLeg
	for rows.Next() {
		var leg domain.PostingLeg
		if err := rows.Scan(
			&leg.ID,
			&leg.BatchID,
			&leg.Side,
			&leg.Reference,
			&leg.AmountCents,
			&leg.Position,
			&leg.ReferenceType,
			&leg.ReferenceIdentifier,
			&leg.CheckRoutingNumber,
			&leg.CheckAccountNumber,
			&leg.CheckNumber,
			&leg.CheckType,
		); err != nil {
			return nil, fmt.Errorf("scan posting leg: %w", err)
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}

func (r *PostingRepository) getAccountTransactions(ctx context.Context, batchID string) ([]domain.AccountTransaction, error) {
	const query = `
SELECT id,
       batch_id,
       leg_position,
       direction,
       amount_cents,
       reference,
       account_id,
       description,
       created_at
FROM account_transactions
WHERE batch_id = $1
ORDER BY leg_position`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("get account transactions: %w", err)
	}
	defer rows.Close()

	var entries []domain.AccountTransaction
	for rows.Next() {
		var entry domain.AccountTransaction
		if err := rows.Scan(
			&entry.ID,
			&entry.BatchID,
			&entry.LegPosition,
			&entry.Direction,
			&entry.AmountCents,
			&entry.Reference,
			&entry.AccountID,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account transaction: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PostingRepository) getCashMovement(ctx context.Context, batchID string) (*domain.CashMovement, error) {
	const query = `
SELECT id, batch_id, direction, amount_cents, created_at
FROM cash_movements
WHERE batch_id = $1`

	var movement domain.CashMovement
	if err := r.db.QueryRowContext(ctx, query, batchID).Scan(
		&movement.ID,
		&movement.BatchID,
		&movement.Direction,
		&movement.AmountCents,
		&movement.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash movement: %w", err)
	}
	return &movement, nil
}

// resolveAccountID maps a customer-facing reference to a known account id
// inside the commit transaction. Unknown references resolve to NULL rather
// than failing the commit.
func (r *PostingRepository) resolveAccountID(ctx context.Context, tx *sql.Tx, reference string) (*string, error) {
	parsed := domain.ParseReference(reference)
	if !parsed.IsCustomerFacing() {
		return nil, nil
	}

	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE account_number = $1`, parsed.Identifier).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve account id: %w", err)
	}
	return &id, nil
}

func normalizeMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
