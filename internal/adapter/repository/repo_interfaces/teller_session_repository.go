package repo_interfaces

import (
	"context"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type TellerSessionRepository interface {
	// Get returns the teller session with its status and assigned cash
	// location, or domain.ErrRecordNotFound.
	Get(ctx context.Context, sessionID string) (domain.TellerSession, error)
}
