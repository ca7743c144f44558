package services

import (
	"testing"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWorkflowServiceValidateWorkflow(t *testing.T) {
	svc := NewWorkflowService()
	teller := testTeller()

	tests := []struct {
		name    string
		input   domain.RecipeInput
		wantErr string
	}{
		{
			name: "deposit ok",
			input: domain.RecipeInput{
				Type:             domain.TransactionTypeDeposit,
				AmountCents:      20000,
				PrimaryReference: "acct:1100045566",
			},
		},
		{
			name:    "deposit missing primary",
			input:   domain.RecipeInput{Type: domain.TransactionTypeDeposit, AmountCents: 20000},
			wantErr: "primaryReference is required",
		},
		{
			name: "deposit cash back above total",
			input: domain.RecipeInput{
				Type:             domain.TransactionTypeDeposit,
				AmountCents:      10000,
				CashBackCents:    15000,
				PrimaryReference: "acct:1100045566",
			},
			wantErr: "cashBack cannot exceed the deposit total",
		},
		{
			name: "transfer missing counterparty",
			input: domain.RecipeInput{
				Type:             domain.TransactionTypeTransfer,
				AmountCents:      10000,
				PrimaryReference: "acct:1100045566",
			},
			wantErr: "counterpartyReference is required",
		},
		{
			name: "check cashing without party needs id",
			input: domain.RecipeInput{
				Type:        domain.TransactionTypeCheckCashing,
				AmountCents: 9500,
			},
			wantErr: "idType is required",
		},
		{
			name: "check cashing with known party skips id",
			input: domain.RecipeInput{
				Type:        domain.TransactionTypeCheckCashing,
				AmountCents: 9500,
				PartyID:     "party-77",
			},
		},
		{
			name: "draft missing payee",
			input: domain.RecipeInput{
				Type:             domain.TransactionTypeDraft,
				AmountCents:      30000,
				InstrumentNumber: "000452",
				CashAmountCents:  30000,
			},
			wantErr: "payeeName is required",
		},
		{
			name: "draft without funding source",
			input: domain.RecipeInput{
				Type:             domain.TransactionTypeDraft,
				AmountCents:      30000,
				PayeeName:        "Pat Doe",
				InstrumentNumber: "000452",
			},
			wantErr: "at least one funding source is required",
		},
		{
			name: "vault transfer other reason needs memo",
			input: domain.RecipeInput{
				Type:                 domain.TransactionTypeVaultTransfer,
				AmountCents:          4000,
				VaultDirection:       domain.VaultDirectionDrawerToVault,
				DestinationReference: "cash:V01",
				ReasonCode:           "other",
			},
			wantErr: "memo is required when reason is other",
		},
		{
			name: "vault transfer destination cannot be drawer",
			input: domain.RecipeInput{
				Type:                 domain.TransactionTypeVaultTransfer,
				AmountCents:          4000,
				VaultDirection:       domain.VaultDirectionDrawerToVault,
				DestinationReference: teller.DrawerReference(),
				ReasonCode:           "replenish",
			},
			wantErr: "destinationReference cannot be the drawer",
		},
		{
			name: "vault to vault same endpoints",
			input: domain.RecipeInput{
				Type:                 domain.TransactionTypeVaultTransfer,
				AmountCents:          4000,
				VaultDirection:       domain.VaultDirectionVaultToVault,
				SourceReference:      "cash:V01",
				DestinationReference: "cash:V01",
				ReasonCode:           "rebalance",
			},
			wantErr: "sourceReference and destinationReference cannot be the same",
		},
		{
			name: "vault transfer ok",
			input: domain.RecipeInput{
				Type:                 domain.TransactionTypeVaultTransfer,
				AmountCents:          4000,
				VaultDirection:       domain.VaultDirectionDrawerToVault,
				DestinationReference: "cash:V01",
				ReasonCode:           "end_of_day",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ValidateWorkflow(tc.input, teller)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
