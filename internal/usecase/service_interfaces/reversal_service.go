package service_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type ReversalService interface {
	SubmitReversal(ctx context.Context, req domain.ReversalRequest) (domain.CommittedBatch, error)
}
