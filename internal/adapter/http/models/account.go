package models

import (
	"time"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

type AccountResponse struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	AccountNumber string    `json:"accountNumber"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func MapAccount(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		CustomerID:    account.CustomerID,
		AccountNumber: account.AccountNumber,
		Currency:      account.Currency,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt,
	}
}
