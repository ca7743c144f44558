package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
)

// ReversalService undoes a prior teller transaction by re-posting its legs
// side-flipped, linked back to the original. It is idempotent by the same
// request-key pattern as the posting engine.
type ReversalService struct {
	postingRepo repo_interfaces.PostingRepository
}

func NewReversalService(postingRepo repo_interfaces.PostingRepository) *ReversalService {
	return &ReversalService{postingRepo: postingRepo}
}

func (s *ReversalService) SubmitReversal(ctx context.Context, req domain.ReversalRequest) (domain.CommittedBatch, error) {
	logger.Info("reversal service submit", logger.Fields{
		"requestId":             req.RequestID,
		"originalTransactionId": req.OriginalTransactionID,
		"reasonCode":            req.ReasonCode,
	})

	existing, err := s.postingRepo.GetBatchByRequestID(ctx, req.RequestID)
	if err == nil {
		logger.Info("reversal service idempotent replay", logger.Fields{
			"requestId": req.RequestID,
			"batchId":   existing.Batch.ID,
		})
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.CommittedBatch{}, err
	}

	if err := validateReversalRequest(req); err != nil {
		return domain.CommittedBatch{}, err
	}

	original, err := s.postingRepo.GetTransaction(ctx, req.OriginalTransactionID)
	if err != nil {
		return domain.CommittedBatch{}, err
	}
	originalBatch, err := s.postingRepo.GetBatchByTransactionID(ctx, original.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.CommittedBatch{}, fmt.Errorf("%w: original transaction has no committed batch", domain.ErrRecordNotFound)
		}
		return domain.CommittedBatch{}, err
	}

	legs, err := buildReversalLegs(original, originalBatch)
	if err != nil {
		return domain.CommittedBatch{}, err
	}

	// Inversion preserves balance by construction; this guards against a
	// builder defect.
	if err := domain.CheckBalance(legs); err != nil {
		return domain.CommittedBatch{}, err
	}
	if err := checkPolicy(req.Teller, domain.TransactionTypeReversal, legs); err != nil {
		return domain.CommittedBatch{}, err
	}

	reasonCode := req.ReasonCode
	metadata := map[string]any{
		"reversal_reason_code": reasonCode,
	}
	if req.Memo != "" {
		metadata["reversal_memo"] = req.Memo
	}

	commit := domain.BatchCommit{
		RequestID: req.RequestID,
		Transaction: domain.TellerTransaction{
			Type:                    domain.TransactionTypeReversal,
			AmountCents:             original.AmountCents,
			Currency:                original.Currency,
			Status:                  domain.TransactionStatusPosted,
			ActorID:                 req.Teller.ActorID,
			SessionID:               req.Teller.SessionID,
			BranchID:                req.Teller.Branch.ID,
			WorkstationID:           req.Teller.WorkstationID,
			ApproverID:              req.ApproverID,
			ReversalOfTransactionID: &original.ID,
			ReversalReasonCode:      &reasonCode,
			ReversalMemo:            optionalString(req.Memo),
		},
		Metadata:                metadata,
		Legs:                    legs,
		AccountTransactions:     buildReversalAccountTransactionInputs(originalBatch.AccountTransactions, legs),
		CashMovement:            deriveCashMovement(legs, req.Teller.DrawerCode, original.Type),
		ReversalOfTransactionID: &original.ID,
		ReversalOfBatchID:       &originalBatch.Batch.ID,
	}

	batch, err := s.postingRepo.CommitBatch(ctx, commit)
	if errors.Is(err, domain.ErrDuplicateRequestID) {
		logger.Info("reversal service duplicate request id resolved to existing batch", logger.Fields{
			"requestId": req.RequestID,
		})
		return s.postingRepo.GetBatchByRequestID(ctx, req.RequestID)
	}
	if err != nil {
		logger.Error("reversal service commit failed", err, logger.Fields{
			"requestId":             req.RequestID,
			"originalTransactionId": original.ID,
		})
		return domain.CommittedBatch{}, err
	}

	logger.Info("reversal service committed", logger.Fields{
		"requestId":             req.RequestID,
		"batchId":               batch.Batch.ID,
		"transactionId":         batch.Transaction.ID,
		"originalTransactionId": original.ID,
	})
	return batch, nil
}

func validateReversalRequest(req domain.ReversalRequest) error {
	var errs []string

	if strings.TrimSpace(req.Teller.ActorID) == "" {
		errs = append(errs, "actor is required")
	}
	if strings.TrimSpace(req.Teller.SessionID) == "" {
		errs = append(errs, "teller session is required")
	}
	if strings.TrimSpace(req.Teller.WorkstationID) == "" {
		errs = append(errs, "workstation is required")
	}
	if strings.TrimSpace(req.RequestID) == "" {
		errs = append(errs, "requestId is required")
	}
	if strings.TrimSpace(req.OriginalTransactionID) == "" {
		errs = append(errs, "originalTransactionId is required")
	}
	if strings.TrimSpace(req.ReasonCode) == "" {
		errs = append(errs, "reasonCode is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

// buildReversalLegs validates that the original is reversible and returns
// its legs in original order with sides flipped and everything else, the
// parsed enrichment included, unchanged.
func buildReversalLegs(original domain.TellerTransaction, originalBatch domain.CommittedBatch) ([]domain.Leg, error) {
	if original.Type == domain.TransactionTypeReversal {
		return nil, fmt.Errorf("%w: a reversal cannot itself be reversed", domain.ErrValidation)
	}
	if original.Status != domain.TransactionStatusPosted {
		return nil, fmt.Errorf("%w: only posted transactions can be reversed", domain.ErrValidation)
	}
	if original.ReversedByTransactionID != nil {
		return nil, domain.ErrAlreadyReversed
	}
	if len(originalBatch.Legs) == 0 {
		return nil, fmt.Errorf("%w: original batch has no legs", domain.ErrRecordNotFound)
	}

	legs := make([]domain.Leg, 0, len(originalBatch.Legs))
	for _, leg := range originalBatch.Legs {
		legs = append(legs, domain.Leg{
			Side:        leg.Side.Flip(),
			Reference:   leg.Reference,
			AmountCents: leg.AmountCents,
			Position:    leg.Position,
			Parsed: domain.AccountReference{
				Raw:                leg.Reference,
				Type:               leg.ReferenceType,
				Identifier:         leg.ReferenceIdentifier,
				CheckRoutingNumber: leg.CheckRoutingNumber,
				CheckAccountNumber: leg.CheckAccountNumber,
				CheckNumber:        leg.CheckNumber,
				CheckType:          leg.CheckType,
			},
		})
	}
	return legs, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
