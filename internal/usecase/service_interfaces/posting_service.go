package service_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type PostingService interface {
	SubmitPosting(ctx context.Context, req domain.PostingRequest) (domain.CommittedBatch, error)
}
