package services

import (
	"context"
	"errors"

	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
)

// PostingService is the posting engine: a single synchronous pass of
// idempotency lookup, validation, policy check, balance check and atomic
// commit. Retries of an already-committed request degrade to a read.
type PostingService struct {
	postingRepo repo_interfaces.PostingRepository
}

func NewPostingService(postingRepo repo_interfaces.PostingRepository) *PostingService {
	return &PostingService{postingRepo: postingRepo}
}

func (s *PostingService) SubmitPosting(ctx context.Context, req domain.PostingRequest) (domain.CommittedBatch, error) {
	logger.Info("posting service submit", logger.Fields{
		"requestId":       req.RequestID,
		"transactionType": req.Type,
		"amountCents":     req.AmountCents,
		"currency":        req.Currency,
		"legCount":        len(req.Legs),
	})

	existing, err := s.postingRepo.GetBatchByRequestID(ctx, req.RequestID)
	if err == nil {
		logger.Info("posting service idempotent replay", logger.Fields{
			"requestId": req.RequestID,
			"batchId":   existing.Batch.ID,
		})
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		logger.Error("posting service idempotency lookup failed", err, logger.Fields{
			"requestId": req.RequestID,
		})
		return domain.CommittedBatch{}, err
	}

	if err := validatePostingRequest(req); err != nil {
		return domain.CommittedBatch{}, err
	}
	if err := checkPolicy(req.Teller, req.Type, req.Legs); err != nil {
		return domain.CommittedBatch{}, err
	}
	if err := domain.CheckBalance(req.Legs); err != nil {
		logger.Error("posting service balance check failed", err, logger.Fields{
			"requestId": req.RequestID,
		})
		return domain.CommittedBatch{}, err
	}

	commit := domain.BatchCommit{
		RequestID: req.RequestID,
		Transaction: domain.TellerTransaction{
			Type:          req.Type,
			AmountCents:   req.AmountCents,
			Currency:      req.Currency,
			Status:        domain.TransactionStatusPosted,
			ActorID:       req.Teller.ActorID,
			SessionID:     req.Teller.SessionID,
			BranchID:      req.Teller.Branch.ID,
			WorkstationID: req.Teller.WorkstationID,
			ApproverID:    req.ApproverID,
		},
		Metadata:            req.Metadata,
		Legs:                req.Legs,
		AccountTransactions: buildAccountTransactionInputs(req.Type, req.Teller.Branch, req.Legs, req.Metadata),
		CashMovement:        deriveCashMovement(req.Legs, req.Teller.DrawerCode, req.Type),
	}

	batch, err := s.postingRepo.CommitBatch(ctx, commit)
	if errors.Is(err, domain.ErrDuplicateRequestID) {
		// Lost the race for a new key; the winner's batch is the result.
		logger.Info("posting service duplicate request id resolved to existing batch", logger.Fields{
			"requestId": req.RequestID,
		})
		return s.postingRepo.GetBatchByRequestID(ctx, req.RequestID)
	}
	if err != nil {
		logger.Error("posting service commit failed", err, logger.Fields{
			"requestId": req.RequestID,
		})
		return domain.CommittedBatch{}, err
	}

	logger.Info("posting service committed", logger.Fields{
		"requestId":     req.RequestID,
		"batchId":       batch.Batch.ID,
		"transactionId": batch.Transaction.ID,
	})
	return batch, nil
}
