package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
	"github.com/api-sage/teller-posting-engine/internal/usecase/service_interfaces"
	"github.com/google/uuid"
)

// VarianceService turns a drawer cash-count mismatch into a correcting
// posting submitted through the posting engine itself. The request key is
// derived from the session id and flow, so a given session's handoff or
// close variance posts at most once even under retry.
type VarianceService struct {
	engine                    service_interfaces.PostingService
	cashShortExpenseReference string
	cashOverIncomeReference   string
}

func NewVarianceService(engine service_interfaces.PostingService, cashShortExpenseReference, cashOverIncomeReference string) *VarianceService {
	return &VarianceService{
		engine:                    engine,
		cashShortExpenseReference: strings.TrimSpace(cashShortExpenseReference),
		cashOverIncomeReference:   strings.TrimSpace(cashOverIncomeReference),
	}
}

func (s *VarianceService) RecordHandoffVariance(ctx context.Context, teller domain.TellerContext, declaredCents, expectedCents int64, currency string) (*domain.CommittedBatch, error) {
	return s.record(ctx, teller, declaredCents, expectedCents, currency, domain.TransactionTypeHandoffVariance, "handoff")
}

func (s *VarianceService) RecordCloseVariance(ctx context.Context, teller domain.TellerContext, declaredCents, expectedCents int64, currency string) (*domain.CommittedBatch, error) {
	return s.record(ctx, teller, declaredCents, expectedCents, currency, domain.TransactionTypeCloseVariance, "close")
}

func (s *VarianceService) record(ctx context.Context, teller domain.TellerContext, declaredCents, expectedCents int64, currency string, txType domain.TransactionType, flow string) (*domain.CommittedBatch, error) {
	diff := declaredCents - expectedCents
	logger.Info("variance service record", logger.Fields{
		"sessionId":     teller.SessionID,
		"flow":          flow,
		"declaredCents": declaredCents,
		"expectedCents": expectedCents,
		"varianceCents": diff,
	})

	if diff == 0 {
		return nil, nil
	}
	if !teller.DrawerAssigned() {
		return nil, fmt.Errorf("%w: variance correction requires an assigned drawer", domain.ErrPolicy)
	}

	drawerReference := teller.DrawerReference()
	amount := diff
	if amount < 0 {
		amount = -amount
	}

	var legs []domain.Leg
	if diff < 0 {
		// Shortfall: the drawer holds less than expected.
		legs = []domain.Leg{
			{Side: domain.LegSideDebit, Reference: s.cashShortExpenseReference, AmountCents: amount},
			{Side: domain.LegSideCredit, Reference: drawerReference, AmountCents: amount},
		}
	} else {
		legs = []domain.Leg{
			{Side: domain.LegSideDebit, Reference: drawerReference, AmountCents: amount},
			{Side: domain.LegSideCredit, Reference: s.cashOverIncomeReference, AmountCents: amount},
		}
	}

	req := domain.PostingRequest{
		Teller:      teller,
		RequestID:   varianceRequestID(teller.SessionID, flow),
		Type:        txType,
		AmountCents: amount,
		Currency:    currency,
		Legs:        finalizeLegs(legs, nil),
		Metadata: map[string]any{
			"variance_flow":  flow,
			"declared_cents": declaredCents,
			"expected_cents": expectedCents,
		},
	}

	batch, err := s.engine.SubmitPosting(ctx, req)
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// varianceRequestID derives a deterministic idempotency key from the
// session id and flow kind.
func varianceRequestID(sessionID, flow string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("teller-session-variance:"+sessionID+":"+flow)).String()
}
