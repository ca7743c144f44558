package services

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/memory"
	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTeller() domain.TellerContext {
	return domain.TellerContext{
		ActorID:       "teller-01",
		SessionID:     "sess-01",
		SessionOpen:   true,
		Branch:        domain.Branch{ID: "br-1", Code: "BR01", Name: "Main Street"},
		WorkstationID: "ws-7",
		DrawerCode:    "D01",
	}
}

func depositRequest(requestID string) domain.PostingRequest {
	svc := newRecipeService()
	metadata, legs := svc.BuildLegs(domain.RecipeInput{
		Type:             domain.TransactionTypeDeposit,
		AmountCents:      20000,
		PrimaryReference: "acct:1100045566",
	}, testTeller().DrawerReference())

	return domain.PostingRequest{
		Teller:      testTeller(),
		RequestID:   requestID,
		Type:        domain.TransactionTypeDeposit,
		AmountCents: 20000,
		Currency:    "USD",
		Legs:        legs,
		Metadata:    metadata,
	}
}

func TestPostingServiceCommitsDeposit(t *testing.T) {
	repo := memory.NewPostingRepository()
	repo.RegisterAccount("1100045566", "acc-uuid-1")
	engine := NewPostingService(repo)

	batch, err := engine.SubmitPosting(context.Background(), depositRequest("req-dep-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, batch.Batch.ID)
	assert.Equal(t, "req-dep-1", batch.Batch.RequestID)
	assert.Equal(t, domain.BatchStatusCommitted, batch.Batch.Status)
	assert.Equal(t, domain.TransactionStatusPosted, batch.Transaction.Status)
	assert.Equal(t, domain.TransactionTypeDeposit, batch.Transaction.Type)
	require.Len(t, batch.Legs, 2)

	require.NotNil(t, batch.CashMovement)
	assert.Equal(t, domain.CashDirectionIn, batch.CashMovement.Direction)
	assert.Equal(t, int64(20000), batch.CashMovement.AmountCents)

	require.Len(t, batch.AccountTransactions, 1)
	entry := batch.AccountTransactions[0]
	assert.Equal(t, domain.LegSideCredit, entry.Direction)
	assert.Equal(t, "Deposit at BR01 - Main Street", entry.Description)
	require.NotNil(t, entry.AccountID)
	assert.Equal(t, "acc-uuid-1", *entry.AccountID)
}

func TestPostingServiceIdempotentReplay(t *testing.T) {
	repo := memory.NewPostingRepository()
	engine := NewPostingService(repo)

	first, err := engine.SubmitPosting(context.Background(), depositRequest("req-dep-2"))
	require.NoError(t, err)

	second, err := engine.SubmitPosting(context.Background(), depositRequest("req-dep-2"))
	require.NoError(t, err)
	assert.Equal(t, first.Batch.ID, second.Batch.ID)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
}

func TestPostingServiceRejectsUnbalancedLegs(t *testing.T) {
	engine := NewPostingService(memory.NewPostingRepository())

	req := depositRequest("req-dep-3")
	req.Legs[1].AmountCents = 19999

	_, err := engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnbalanced))
}

func TestPostingServiceRejectsClosedSession(t *testing.T) {
	engine := NewPostingService(memory.NewPostingRepository())

	req := depositRequest("req-dep-4")
	req.Teller.SessionOpen = false

	_, err := engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPolicy))
}

func TestPostingServiceRequiresDrawerForCashTypes(t *testing.T) {
	engine := NewPostingService(memory.NewPostingRepository())

	req := depositRequest("req-dep-5")
	req.Teller.DrawerCode = ""

	_, err := engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPolicy))
}

func TestPostingServiceValidationErrors(t *testing.T) {
	engine := NewPostingService(memory.NewPostingRepository())

	req := depositRequest("")
	_, err := engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req = depositRequest("req-dep-6")
	req.AmountCents = 0
	_, err = engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req = depositRequest("req-dep-7")
	req.Legs = nil
	_, err = engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPostingServiceRejectsReversalType(t *testing.T) {
	engine := NewPostingService(memory.NewPostingRepository())

	req := depositRequest("req-dep-8")
	req.Type = domain.TransactionTypeReversal

	_, err := engine.SubmitPosting(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.ErrorContains(t, err, "reversal flow")
}

// duplicateKeyRepo simulates losing the commit race for a new request id:
// the first idempotency lookup misses, the commit hits the unique index, and
// the retry lookup returns the winner's batch.
type duplicateKeyRepo struct {
	winner   domain.CommittedBatch
	original domain.CommittedBatch
	lookups  int
	commits  int
}

func (r *duplicateKeyRepo) GetBatchByRequestID(_ context.Context, _ string) (domain.CommittedBatch, error) {
	r.lookups++
	if r.lookups == 1 {
		return domain.CommittedBatch{}, domain.ErrRecordNotFound
	}
	return r.winner, nil
}

func (r *duplicateKeyRepo) CommitBatch(_ context.Context, _ domain.BatchCommit) (domain.CommittedBatch, error) {
	r.commits++
	return domain.CommittedBatch{}, domain.ErrDuplicateRequestID
}

func (r *duplicateKeyRepo) GetTransaction(_ context.Context, transactionID string) (domain.TellerTransaction, error) {
	if r.original.Transaction.ID == transactionID {
		return r.original.Transaction, nil
	}
	return domain.TellerTransaction{}, domain.ErrRecordNotFound
}

func (r *duplicateKeyRepo) GetBatchByTransactionID(_ context.Context, transactionID string) (domain.CommittedBatch, error) {
	if r.original.Batch.TransactionID == transactionID {
		return r.original, nil
	}
	return domain.CommittedBatch{}, domain.ErrRecordNotFound
}

func TestPostingServiceDuplicateKeyResolvesToWinner(t *testing.T) {
	repo := &duplicateKeyRepo{
		winner: domain.CommittedBatch{
			Transaction: domain.TellerTransaction{ID: "txn-winner"},
			Batch:       domain.PostingBatch{ID: "batch-winner", RequestID: "req-race-1"},
		},
	}
	engine := NewPostingService(repo)

	batch, err := engine.SubmitPosting(context.Background(), depositRequest("req-race-1"))
	require.NoError(t, err)
	assert.Equal(t, "batch-winner", batch.Batch.ID)
	assert.Equal(t, 1, repo.commits)
	assert.Equal(t, 2, repo.lookups)
}

func TestDeriveCashMovementNetsDrawerLegs(t *testing.T) {
	legs := finalizeLegs([]domain.Leg{
		{Side: domain.LegSideDebit, Reference: "cash:D01", AmountCents: 10000},
		{Side: domain.LegSideCredit, Reference: "cash:D01", AmountCents: 4000},
		{Side: domain.LegSideCredit, Reference: "acct:1100045566", AmountCents: 6000},
	}, nil)

	movement := deriveCashMovement(legs, "D01", domain.TransactionTypeDeposit)
	require.NotNil(t, movement)
	assert.Equal(t, domain.CashDirectionIn, movement.Direction)
	assert.Equal(t, int64(6000), movement.AmountCents)
}

func TestDeriveCashMovementZeroNet(t *testing.T) {
	legs := []domain.Leg{
		{Side: domain.LegSideDebit, Reference: "cash:D01", AmountCents: 5000},
		{Side: domain.LegSideCredit, Reference: "cash:D01", AmountCents: 5000},
	}
	assert.Nil(t, deriveCashMovement(legs, "D01", domain.TransactionTypeDeposit))
}

func TestDeriveCashMovementSkipsVarianceCorrections(t *testing.T) {
	legs := []domain.Leg{
		{Side: domain.LegSideDebit, Reference: "cash:D01", AmountCents: 1000},
		{Side: domain.LegSideCredit, Reference: "income:cash_over", AmountCents: 1000},
	}
	assert.Nil(t, deriveCashMovement(legs, "D01", domain.TransactionTypeCloseVariance))
}
