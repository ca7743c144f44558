package service_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type VarianceService interface {
	RecordHandoffVariance(ctx context.Context, teller domain.TellerContext, declaredCents, expectedCents int64, currency string) (*domain.CommittedBatch, error)
	RecordCloseVariance(ctx context.Context, teller domain.TellerContext, declaredCents, expectedCents int64, currency string) (*domain.CommittedBatch, error)
}
