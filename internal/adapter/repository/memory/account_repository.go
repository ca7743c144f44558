package memory

import (
	"context"
	"sync"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: map[string]domain.Account{}}
}

func (r *AccountRepository) Put(account domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.AccountNumber] = account
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}
