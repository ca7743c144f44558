package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/shopspring/decimal"
)

type PostingEntry struct {
	Side             string `json:"side"`
	AccountReference string `json:"accountReference"`
	Amount           string `json:"amount"`
}

type CheckItemPayload struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Type      string `json:"type,omitempty"`
}

type SubmitPostingRequest struct {
	RequestID             string             `json:"requestId"`
	ActorID               string             `json:"actorId"`
	SessionID             string             `json:"sessionId"`
	WorkstationID         string             `json:"workstationId"`
	TransactionType       string             `json:"transactionType"`
	Amount                string             `json:"amount"`
	Currency              string             `json:"currency"`
	Entries               []PostingEntry     `json:"entries,omitempty"`
	PrimaryReference      string             `json:"primaryReference,omitempty"`
	CounterpartyReference string             `json:"counterpartyReference,omitempty"`
	Fee                   string             `json:"fee,omitempty"`
	CashAmount            string             `json:"cashAmount,omitempty"`
	CashBack              string             `json:"cashBack,omitempty"`
	AccountAmount         string             `json:"accountAmount,omitempty"`
	CheckItems            []CheckItemPayload `json:"checkItems,omitempty"`
	VaultDirection        string             `json:"vaultDirection,omitempty"`
	SourceReference       string             `json:"sourceReference,omitempty"`
	DestinationReference  string             `json:"destinationReference,omitempty"`
	LiabilityReference    string             `json:"liabilityReference,omitempty"`
	IncomeReference       string             `json:"incomeReference,omitempty"`
	PayeeName             string             `json:"payeeName,omitempty"`
	InstrumentNumber      string             `json:"instrumentNumber,omitempty"`
	ReasonCode            string             `json:"reasonCode,omitempty"`
	Memo                  string             `json:"memo,omitempty"`
	PartyID               string             `json:"partyId,omitempty"`
	IDType                string             `json:"idType,omitempty"`
	IDNumber              string             `json:"idNumber,omitempty"`
	Metadata              map[string]any     `json:"metadata,omitempty"`
	ApproverID            string             `json:"approverId,omitempty"`
}

func (r SubmitPostingRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.RequestID) == "" {
		errs = append(errs, "requestId is required")
	}
	if strings.TrimSpace(r.ActorID) == "" {
		errs = append(errs, "actorId is required")
	}
	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.WorkstationID) == "" {
		errs = append(errs, "workstationId is required")
	}
	if !domain.TransactionType(strings.TrimSpace(r.TransactionType)).Valid() {
		errs = append(errs, "transactionType is not supported")
	}

	amount, err := parseCents(r.Amount)
	if err != nil {
		errs = append(errs, "amount must be a valid decimal with at most two decimal places")
	} else if amount <= 0 {
		errs = append(errs, "amount must be greater than zero")
	}

	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if len(currency) != 3 {
		errs = append(errs, "currency must be 3 characters")
	}

	for i, entry := range r.Entries {
		side := strings.ToUpper(strings.TrimSpace(entry.Side))
		if side != string(domain.LegSideDebit) && side != string(domain.LegSideCredit) {
			errs = append(errs, fmt.Sprintf("entries[%d].side must be DEBIT or CREDIT", i))
		}
		if cents, err := parseCents(entry.Amount); err != nil || cents <= 0 {
			errs = append(errs, fmt.Sprintf("entries[%d].amount must be a positive decimal", i))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// RecipeInput converts the boundary payload into the recipe builder's
// cents-denominated input.
func (r SubmitPostingRequest) RecipeInput() (domain.RecipeInput, error) {
	amount, err := parseCents(r.Amount)
	if err != nil {
		return domain.RecipeInput{}, fmt.Errorf("amount: %w", err)
	}
	fee, err := parseCents(r.Fee)
	if err != nil {
		return domain.RecipeInput{}, fmt.Errorf("fee: %w", err)
	}
	cashAmount, err := parseCents(r.CashAmount)
	if err != nil {
		return domain.RecipeInput{}, fmt.Errorf("cashAmount: %w", err)
	}
	cashBack, err := parseCents(r.CashBack)
	if err != nil {
		return domain.RecipeInput{}, fmt.Errorf("cashBack: %w", err)
	}
	accountAmount, err := parseCents(r.AccountAmount)
	if err != nil {
		return domain.RecipeInput{}, fmt.Errorf("accountAmount: %w", err)
	}

	checkItems := make([]domain.CheckItem, 0, len(r.CheckItems))
	for i, item := range r.CheckItems {
		cents, err := parseCents(item.Amount)
		if err != nil {
			return domain.RecipeInput{}, fmt.Errorf("checkItems[%d].amount: %w", i, err)
		}
		checkItems = append(checkItems, domain.CheckItem{
			Reference:   strings.TrimSpace(item.Reference),
			AmountCents: cents,
			Type:        strings.TrimSpace(item.Type),
		})
	}

	entries := make([]domain.Leg, 0, len(r.Entries))
	for i, entry := range r.Entries {
		cents, err := parseCents(entry.Amount)
		if err != nil {
			return domain.RecipeInput{}, fmt.Errorf("entries[%d].amount: %w", i, err)
		}
		entries = append(entries, domain.Leg{
			Side:        domain.LegSide(strings.ToUpper(strings.TrimSpace(entry.Side))),
			Reference:   strings.TrimSpace(entry.AccountReference),
			AmountCents: cents,
			Position:    i,
		})
	}

	return domain.RecipeInput{
		Type:                  domain.TransactionType(strings.TrimSpace(r.TransactionType)),
		AmountCents:           amount,
		PrimaryReference:      strings.TrimSpace(r.PrimaryReference),
		CounterpartyReference: strings.TrimSpace(r.CounterpartyReference),
		FeeCents:              fee,
		CashAmountCents:       cashAmount,
		CashBackCents:         cashBack,
		AccountAmountCents:    accountAmount,
		CheckItems:            checkItems,
		VaultDirection:        domain.VaultDirection(strings.TrimSpace(r.VaultDirection)),
		SourceReference:       strings.TrimSpace(r.SourceReference),
		DestinationReference:  strings.TrimSpace(r.DestinationReference),
		LiabilityReference:    strings.TrimSpace(r.LiabilityReference),
		IncomeReference:       strings.TrimSpace(r.IncomeReference),
		PayeeName:             strings.TrimSpace(r.PayeeName),
		InstrumentNumber:      strings.TrimSpace(r.InstrumentNumber),
		ReasonCode:            strings.TrimSpace(r.ReasonCode),
		Memo:                  strings.TrimSpace(r.Memo),
		PartyID:               strings.TrimSpace(r.PartyID),
		IDType:                strings.TrimSpace(r.IDType),
		IDNumber:              strings.TrimSpace(r.IDNumber),
		ExplicitLegs:          entries,
	}, nil
}

type SubmitReversalRequest struct {
	RequestID             string `json:"requestId"`
	ActorID               string `json:"actorId"`
	SessionID             string `json:"sessionId"`
	WorkstationID         string `json:"workstationId"`
	OriginalTransactionID string `json:"originalTransactionId"`
	ReasonCode            string `json:"reasonCode"`
	Memo                  string `json:"memo,omitempty"`
	ApproverID            string `json:"approverId,omitempty"`
}

func (r SubmitReversalRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.RequestID) == "" {
		errs = append(errs, "requestId is required")
	}
	if strings.TrimSpace(r.ActorID) == "" {
		errs = append(errs, "actorId is required")
	}
	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.WorkstationID) == "" {
		errs = append(errs, "workstationId is required")
	}
	if strings.TrimSpace(r.OriginalTransactionID) == "" {
		errs = append(errs, "originalTransactionId is required")
	}
	if strings.TrimSpace(r.ReasonCode) == "" {
		errs = append(errs, "reasonCode is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type RecordVarianceRequest struct {
	SessionID      string `json:"sessionId"`
	ActorID        string `json:"actorId"`
	WorkstationID  string `json:"workstationId"`
	Flow           string `json:"flow"`
	DeclaredAmount string `json:"declaredAmount"`
	ExpectedAmount string `json:"expectedAmount"`
	Currency       string `json:"currency"`
}

func (r RecordVarianceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SessionID) == "" {
		errs = append(errs, "sessionId is required")
	}
	if strings.TrimSpace(r.ActorID) == "" {
		errs = append(errs, "actorId is required")
	}
	if strings.TrimSpace(r.WorkstationID) == "" {
		errs = append(errs, "workstationId is required")
	}
	if flow := strings.TrimSpace(r.Flow); flow != "handoff" && flow != "close" {
		errs = append(errs, "flow must be handoff or close")
	}
	if _, err := parseCents(r.DeclaredAmount); err != nil {
		errs = append(errs, "declaredAmount must be a valid decimal")
	}
	if _, err := parseCents(r.ExpectedAmount); err != nil {
		errs = append(errs, "expectedAmount must be a valid decimal")
	}
	if currency := strings.ToUpper(strings.TrimSpace(r.Currency)); len(currency) != 3 {
		errs = append(errs, "currency must be 3 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LegPayload struct {
	Side                string `json:"side"`
	AccountReference    string `json:"accountReference"`
	AmountCents         int64  `json:"amountCents"`
	Position            int    `json:"position"`
	ReferenceType       string `json:"referenceType"`
	ReferenceIdentifier string `json:"referenceIdentifier"`
	CheckType           string `json:"checkType,omitempty"`
}

type CashMovementPayload struct {
	Direction   string `json:"direction"`
	AmountCents int64  `json:"amountCents"`
}

type CommittedBatchResponse struct {
	BatchID       string               `json:"batchId"`
	TransactionID string               `json:"transactionId"`
	RequestID     string               `json:"requestId"`
	Status        string               `json:"status"`
	Currency      string               `json:"currency"`
	AmountCents   int64                `json:"amountCents"`
	CommittedAt   time.Time            `json:"committedAt"`
	Legs          []LegPayload         `json:"legs"`
	CashMovement  *CashMovementPayload `json:"cashMovement,omitempty"`
}

func MapCommittedBatch(batch domain.CommittedBatch) CommittedBatchResponse {
	legs := make([]LegPayload, 0, len(batch.Legs))
	for _, leg := range batch.Legs {
		legs = append(legs, LegPayload{
			Side:                string(leg.Side),
			AccountReference:    leg.Reference,
			AmountCents:         leg.AmountCents,
			Position:            leg.Position,
			ReferenceType:       string(leg.ReferenceType),
			ReferenceIdentifier: leg.ReferenceIdentifier,
			CheckType:           leg.CheckType,
		})
	}

	response := CommittedBatchResponse{
		BatchID:       batch.Batch.ID,
		TransactionID: batch.Transaction.ID,
		RequestID:     batch.Batch.RequestID,
		Status:        string(batch.Batch.Status),
		Currency:      batch.Batch.Currency,
		AmountCents:   batch.Transaction.AmountCents,
		CommittedAt:   batch.Batch.CommittedAt,
		Legs:          legs,
	}
	if batch.CashMovement != nil {
		response.CashMovement = &CashMovementPayload{
			Direction:   string(batch.CashMovement.Direction),
			AmountCents: batch.CashMovement.AmountCents,
		}
	}
	return response
}

// parseCents converts a decimal amount string to integer cents. Blank
// parses to zero; more than two decimal places is an error.
func parseCents(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q", value)
	}

	cents := amount.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	return cents.IntPart(), nil
}
