package services

import (
	"fmt"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

// buildAccountTransactionInputs produces one account-transaction row per
// customer-facing leg, with a narration keyed on transaction type and side.
func buildAccountTransactionInputs(txType domain.TransactionType, branch domain.Branch, legs []domain.Leg, metadata map[string]any) []domain.AccountTransactionInput {
	var rows []domain.AccountTransactionInput
	for _, leg := range legs {
		if !leg.Parsed.IsCustomerFacing() {
			continue
		}
		rows = append(rows, domain.AccountTransactionInput{
			LegPosition: leg.Position,
			Direction:   leg.Side,
			AmountCents: leg.AmountCents,
			Reference:   leg.Reference,
			Description: accountTransactionDescription(txType, branch, leg, legs, metadata),
		})
	}
	return rows
}

func accountTransactionDescription(txType domain.TransactionType, branch domain.Branch, leg domain.Leg, legs []domain.Leg, metadata map[string]any) string {
	switch txType {
	case domain.TransactionTypeDeposit:
		if leg.Side == domain.LegSideCredit {
			return fmt.Sprintf("Deposit at %s - %s", branch.Code, branch.Name)
		}
	case domain.TransactionTypeWithdrawal:
		if leg.Side == domain.LegSideDebit {
			return fmt.Sprintf("Withdrawal at %s - %s", branch.Code, branch.Name)
		}
	case domain.TransactionTypeTransfer:
		if other, ok := counterpartLeg(legs, leg); ok {
			if leg.Side == domain.LegSideDebit {
				return "Transfer to " + maskAccountIdentifier(other.Parsed.Identifier)
			}
			return "Transfer from " + maskAccountIdentifier(other.Parsed.Identifier)
		}
	case domain.TransactionTypeDraft:
		if leg.Side == domain.LegSideDebit {
			instrument, _ := metadata["instrument_number"].(string)
			payee, _ := metadata["payee_name"].(string)
			if instrument == "" && payee == "" {
				return "Bank Draft"
			}
			return fmt.Sprintf("Bank Draft #%s - %s", instrument, payee)
		}
	case domain.TransactionTypeMiscReceipt:
		if memo, _ := metadata["memo"].(string); memo != "" {
			return fmt.Sprintf("%s (%s)", txType.Label(), memo)
		}
		return txType.Label()
	}
	return txType.Label()
}

// counterpartLeg finds the customer-facing leg on the opposite side of a
// transfer, skipping the leg itself.
func counterpartLeg(legs []domain.Leg, leg domain.Leg) (domain.Leg, bool) {
	for _, candidate := range legs {
		if candidate.Position == leg.Position {
			continue
		}
		if candidate.Side == leg.Side.Flip() && candidate.Parsed.IsCustomerFacing() {
			return candidate, true
		}
	}
	return domain.Leg{}, false
}

// buildReversalAccountTransactionInputs derives reversal narrations by
// locating the original batch's opposite-side account transaction for the
// same reference and prefixing it. Legs without an original description
// stay blank.
func buildReversalAccountTransactionInputs(original []domain.AccountTransaction, legs []domain.Leg) []domain.AccountTransactionInput {
	var rows []domain.AccountTransactionInput
	for _, leg := range legs {
		if !leg.Parsed.IsCustomerFacing() {
			continue
		}
		rows = append(rows, domain.AccountTransactionInput{
			LegPosition: leg.Position,
			Direction:   leg.Side,
			AmountCents: leg.AmountCents,
			Reference:   leg.Reference,
			Description: reversalDescription(original, leg),
		})
	}
	return rows
}

func reversalDescription(original []domain.AccountTransaction, leg domain.Leg) string {
	for _, entry := range original {
		if entry.Reference == leg.Reference && entry.Direction == leg.Side.Flip() && entry.Description != "" {
			return "Reversal of " + entry.Description
		}
	}
	return ""
}

// maskAccountIdentifier keeps the last four characters of an account
// identifier, or masks it entirely when shorter.
func maskAccountIdentifier(identifier string) string {
	if len(identifier) < 4 {
		return "xxxx"
	}
	return "xxxx" + identifier[len(identifier)-4:]
}
