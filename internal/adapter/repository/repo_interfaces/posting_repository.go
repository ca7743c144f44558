package repo_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type PostingRepository interface {
	// GetBatchByRequestID returns the committed batch for an idempotency
	// key, or domain.ErrRecordNotFound.
	GetBatchByRequestID(ctx context.Context, requestID string) (domain.CommittedBatch, error)

	// CommitBatch persists the whole unit of work atomically. A request-id
	// collision surfaces as domain.ErrDuplicateRequestID; a reversal commit
	// against an already-reversed original surfaces as
	// domain.ErrAlreadyReversed. Nothing is written in either case.
	CommitBatch(ctx context.Context, commit domain.BatchCommit) (domain.CommittedBatch, error)

	// GetTransaction returns a teller transaction by id, or
	// domain.ErrRecordNotFound.
	GetTransaction(ctx context.Context, transactionID string) (domain.TellerTransaction, error)

	// GetBatchByTransactionID returns the committed batch backing a teller
	// transaction, or domain.ErrRecordNotFound.
	GetBatchByTransactionID(ctx context.Context, transactionID string) (domain.CommittedBatch, error)
}
