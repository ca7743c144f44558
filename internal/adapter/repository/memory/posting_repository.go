package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/google/uuid"
)

// PostingRepository is an in-memory posting store with the same
// uniqueness and reversal guarantees as the Postgres adapter. It backs the
// service tests and local development without a database.
type PostingRepository struct {
	mu           sync.Mutex
	accounts     map[string]string
	byRequestID  map[string]string
	batches      map[string]domain.CommittedBatch
	transactions map[string]*domain.TellerTransaction
}

func NewPostingRepository() *PostingRepository {
	return &PostingRepository{
		accounts:     map[string]string{},
		byRequestID:  map[string]string{},
		batches:      map[string]domain.CommittedBatch{},
		transactions: map[string]*domain.TellerTransaction{},
	}
}

// RegisterAccount makes an account number resolvable to an id.
func (r *PostingRepository) RegisterAccount(accountNumber, accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[accountNumber] = accountID
}

func (r *PostingRepository) CommitBatch(_ context.Context, commit domain.BatchCommit) (domain.CommittedBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRequestID[commit.RequestID]; exists {
		return domain.CommittedBatch{}, domain.ErrDuplicateRequestID
	}

	var original *domain.TellerTransaction
	if commit.ReversalOfTransactionID != nil {
		original = r.transactions[*commit.ReversalOfTransactionID]
		if original == nil {
			return domain.CommittedBatch{}, domain.ErrRecordNotFound
		}
		if original.ReversedByTransactionID != nil {
			return domain.CommittedBatch{}, domain.ErrAlreadyReversed
		}
	}

	now := time.Now().UTC()

	transaction := commit.Transaction
	transaction.ID = uuid.NewString()
	transaction.PostedAt = now
	transaction.ReversalOfTransactionID = commit.ReversalOfTransactionID

	batch := domain.PostingBatch{
		ID:                uuid.NewString(),
		TransactionID:     transaction.ID,
		RequestID:         commit.RequestID,
		Currency:          transaction.Currency,
		Status:            domain.BatchStatusCommitted,
		Metadata:          commit.Metadata,
		CommittedAt:       now,
		ReversalOfBatchID: commit.ReversalOfBatchID,
	}

	legs := make([]domain.PostingLeg, 0, len(commit.Legs))
	for _, leg := range commit.Legs {
		legs = append(legs, domain.PostingLeg{
			ID:                  uuid.NewString(),
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
		})
	}

	accountTransactions := make([]domain.AccountTransaction, 0, len(commit.AccountTransactions))
	for _, entry := range commit.AccountTransactions {
		var accountID *string
		parsed := domain.ParseReference(entry.Reference)
		if parsed.IsCustomerFacing() {
			if id, ok := r.accounts[parsed.Identifier]; ok {
				value := id
				accountID = &value
			}
		}
		accountTransactions = append(accountTransactions, domain.AccountTransaction{
			ID:          uuid.NewString(),
			BatchID:     batch.ID,
			LegPosition: entry.LegPosition,
			Direction:   entry.Direction,
			AmountCents: entry.AmountCents,
			Reference:   entry.Reference,
			AccountID:   accountID,
			Description: entry.Description,
			CreatedAt:   now,
		})
	}

	var movement *domain.CashMovement
	if commit.CashMovement != nil {
		movement = &domain.CashMovement{
			ID:          uuid.NewString(),
			BatchID:     batch.ID,
			Direction:   commit.CashMovement.Direction,
			AmountCents: commit.CashMovement.AmountCents,
			CreatedAt:   now,
		}
	}

	if original != nil {
		original.ReversedByTransactionID = &transaction.ID
		reversedAt := now
		original.ReversedAt = &reversedAt
	}

	committed := domain.CommittedBatch{
		Transaction:         transaction,
		Batch:               batch,
		Legs:                legs,
		AccountTransactions: accountTransactions,
		CashMovement:        movement,
	}

	r.transactions[transaction.ID] = &transaction
	r.batches[batch.ID] = committed
	r.byRequestID[commit.RequestID] = batch.ID

	return committed, nil
}

func (r *PostingRepository) GetBatchByRequestID(_ context.Context, requestID string) (domain.CommittedBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batchID, ok := r.byRequestID[requestID]
	if !ok {
		return domain.CommittedBatch{}, domain.ErrRecordNotFound
	}
	return r.snapshot(r.batches[batchID]), nil
}

func (r *PostingRepository) GetBatchByTransactionID(_ context.Context, transactionID string) (domain.CommittedBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, batch := range r.batches {
		if batch.Batch.TransactionID == transactionID {
			return r.snapshot(batch), nil
		}
	}
	return domain.CommittedBatch{}, domain.ErrRecordNotFound
}

func (r *PostingRepository) GetTransaction(_ context.Context, transactionID string) (domain.TellerTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[transactionID]
	if !ok {
		return domain.TellerTransaction{}, domain.ErrRecordNotFound
	}
	return *transaction, nil
}

// snapshot refreshes the embedded transaction so reversal-linkage updates
// are visible through previously committed batches.
func (r *PostingRepository) snapshot(batch domain.CommittedBatch) domain.CommittedBatch {
	if transaction, ok := r.transactions[batch.Batch.TransactionID]; ok {
		batch.Transaction = *transaction
	}
	return batch
}
