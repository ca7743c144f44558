package services

import (
	"fmt"
	"strings"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

// WorkflowService runs the per-transaction-type field checks before a
// posting is assembled. It serves both the interactive pre-check and the
// defensive gate ahead of commit.
type WorkflowService struct{}

func NewWorkflowService() *WorkflowService {
	return &WorkflowService{}
}

func (s *WorkflowService) ValidateWorkflow(input domain.RecipeInput, teller domain.TellerContext) error {
	var errs []string

	switch input.Type {
	case domain.TransactionTypeDeposit:
		if strings.TrimSpace(input.PrimaryReference) == "" {
			errs = append(errs, "primaryReference is required")
		}
		if input.CashBackCents > input.AmountCents {
			errs = append(errs, "cashBack cannot exceed the deposit total")
		}
	case domain.TransactionTypeWithdrawal:
		if strings.TrimSpace(input.PrimaryReference) == "" {
			errs = append(errs, "primaryReference is required")
		}
	case domain.TransactionTypeTransfer:
		if len(input.ExplicitLegs) == 0 {
			if strings.TrimSpace(input.PrimaryReference) == "" {
				errs = append(errs, "primaryReference is required")
			}
			if strings.TrimSpace(input.CounterpartyReference) == "" {
				errs = append(errs, "counterpartyReference is required")
			}
		}
	case domain.TransactionTypeCheckCashing:
		// ID checks apply only when no known party is attached.
		if strings.TrimSpace(input.PartyID) == "" {
			if strings.TrimSpace(input.IDType) == "" {
				errs = append(errs, "idType is required")
			}
			if strings.TrimSpace(input.IDNumber) == "" {
				errs = append(errs, "idNumber is required")
			}
		}
	case domain.TransactionTypeDraft:
		if input.AmountCents <= 0 {
			errs = append(errs, "amount must be greater than zero")
		}
		if strings.TrimSpace(input.PayeeName) == "" {
			errs = append(errs, "payeeName is required")
		}
		if strings.TrimSpace(input.InstrumentNumber) == "" {
			errs = append(errs, "instrumentNumber is required")
		}
		if input.CashAmountCents <= 0 && input.AccountAmountCents <= 0 && len(input.CheckItems) == 0 {
			errs = append(errs, "at least one funding source is required")
		}
		if input.AccountAmountCents > 0 && strings.TrimSpace(input.PrimaryReference) == "" {
			errs = append(errs, "primaryReference is required for account-funded drafts")
		}
	case domain.TransactionTypeVaultTransfer:
		errs = append(errs, s.vaultTransferErrors(input, teller)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

func (s *WorkflowService) vaultTransferErrors(input domain.RecipeInput, teller domain.TellerContext) []string {
	var errs []string

	if !input.VaultDirection.Valid() {
		errs = append(errs, "direction is not supported")
	}
	if strings.TrimSpace(input.ReasonCode) == "" {
		errs = append(errs, "reasonCode is required")
	}
	if input.ReasonCode == "other" && strings.TrimSpace(input.Memo) == "" {
		errs = append(errs, "memo is required when reason is other")
	}

	drawerReference := teller.DrawerReference()
	switch input.VaultDirection {
	case domain.VaultDirectionDrawerToVault:
		if strings.TrimSpace(input.DestinationReference) == "" {
			errs = append(errs, "destinationReference is required")
		} else if input.DestinationReference == drawerReference {
			errs = append(errs, "destinationReference cannot be the drawer")
		}
	case domain.VaultDirectionVaultToDrawer:
		if strings.TrimSpace(input.SourceReference) == "" {
			errs = append(errs, "sourceReference is required")
		} else if input.SourceReference == drawerReference {
			errs = append(errs, "sourceReference cannot be the drawer")
		}
	case domain.VaultDirectionVaultToVault:
		if strings.TrimSpace(input.SourceReference) == "" {
			errs = append(errs, "sourceReference is required")
		}
		if strings.TrimSpace(input.DestinationReference) == "" {
			errs = append(errs, "destinationReference is required")
		}
		if input.SourceReference != "" && input.SourceReference == input.DestinationReference {
			errs = append(errs, "sourceReference and destinationReference cannot be the same")
		}
	}

	return errs
}
