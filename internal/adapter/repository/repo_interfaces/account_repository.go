package repo_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type AccountRepository interface {
	// GetByAccountNumber returns the account, or domain.ErrRecordNotFound.
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
}
