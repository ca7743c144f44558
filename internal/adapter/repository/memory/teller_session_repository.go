package memory

import (
	"context"
	"sync"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type TellerSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.TellerSession
}

func NewTellerSessionRepository() *TellerSessionRepository {
	return &TellerSessionRepository{sessions: map[string]domain.TellerSession{}}
}

func (r *TellerSessionRepository) Put(session domain.TellerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

func (r *TellerSessionRepository) Get(_ context.Context, sessionID string) (domain.TellerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return domain.TellerSession{}, domain.ErrRecordNotFound
	}
	return session, nil
}
