package services

import (
	"testing"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDrawer = "cash:D01"

func newRecipeService() *RecipeService {
	return NewRecipeService("income:transfer_fee", "income:check_cashing_fee", "income:draft_fee")
}

func TestRecipeServiceDepositCash(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:             domain.TransactionTypeDeposit,
		AmountCents:      20000,
		PrimaryReference: "acct:1100045566",
	}, testDrawer)

	require.Len(t, legs, 2)
	assert.Equal(t, domain.LegSideDebit, legs[0].Side)
	assert.Equal(t, testDrawer, legs[0].Reference)
	assert.Equal(t, int64(20000), legs[0].AmountCents)
	assert.Equal(t, domain.LegSideCredit, legs[1].Side)
	assert.Equal(t, "acct:1100045566", legs[1].Reference)
	assert.Equal(t, int64(20000), legs[1].AmountCents)

	assert.Equal(t, 0, legs[0].Position)
	assert.Equal(t, 1, legs[1].Position)
	assert.Equal(t, domain.ReferenceTypeCashLocation, legs[0].Parsed.Type)
	assert.Equal(t, domain.ReferenceTypeCustomerAccount, legs[1].Parsed.Type)
	require.NoError(t, domain.CheckBalance(legs))
}

func TestRecipeServiceDepositMixedWithCashBack(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:             domain.TransactionTypeDeposit,
		AmountCents:      25000,
		PrimaryReference: "acct:1100045566",
		CashBackCents:    5000,
		CheckItems: []domain.CheckItem{
			{Reference: "check:021000021:55:901", AmountCents: 15000, Type: "on_us"},
		},
		ExplicitLegs: []domain.Leg{
			{Side: domain.LegSideDebit, Reference: "cash:tendered", AmountCents: 10000},
			{Side: domain.LegSideDebit, Reference: "check:021000021:55:901", AmountCents: 15000},
		},
	}, testDrawer)

	require.Len(t, legs, 4)
	// Non-check debits are normalized onto the drawer.
	assert.Equal(t, testDrawer, legs[0].Reference)
	assert.Equal(t, "check:021000021:55:901", legs[1].Reference)
	assert.Equal(t, "on_us", legs[1].Parsed.CheckType)

	assert.Equal(t, domain.LegSideCredit, legs[2].Side)
	assert.Equal(t, testDrawer, legs[2].Reference)
	assert.Equal(t, int64(5000), legs[2].AmountCents)

	assert.Equal(t, domain.LegSideCredit, legs[3].Side)
	assert.Equal(t, "acct:1100045566", legs[3].Reference)
	assert.Equal(t, int64(20000), legs[3].AmountCents)
	require.NoError(t, domain.CheckBalance(legs))
}

func TestRecipeServiceWithdrawal(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:             domain.TransactionTypeWithdrawal,
		AmountCents:      7500,
		PrimaryReference: "acct:1100045566",
	}, testDrawer)

	require.Len(t, legs, 2)
	assert.Equal(t, domain.LegSideDebit, legs[0].Side)
	assert.Equal(t, "acct:1100045566", legs[0].Reference)
	assert.Equal(t, domain.LegSideCredit, legs[1].Side)
	assert.Equal(t, testDrawer, legs[1].Reference)
}

func TestRecipeServiceTransferWithFee(t *testing.T) {
	svc := newRecipeService()

	metadata, legs := svc.BuildLegs(domain.RecipeInput{
		Type:                  domain.TransactionTypeTransfer,
		AmountCents:           10000,
		FeeCents:              250,
		PrimaryReference:      "acct:1100045566",
		CounterpartyReference: "acct:2200078899",
	}, "")

	require.Len(t, legs, 3)
	assert.Equal(t, int64(10000), legs[0].AmountCents)
	assert.Equal(t, int64(9750), legs[1].AmountCents)
	assert.Equal(t, "income:transfer_fee", legs[2].Reference)
	assert.Equal(t, int64(250), legs[2].AmountCents)
	assert.Equal(t, int64(250), metadata["fee_cents"])
	require.NoError(t, domain.CheckBalance(legs))
}

func TestRecipeServiceVaultTransfer(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:                 domain.TransactionTypeVaultTransfer,
		AmountCents:          4000,
		VaultDirection:       domain.VaultDirectionDrawerToVault,
		DestinationReference: "cash:V01",
	}, testDrawer)

	require.Len(t, legs, 2)
	assert.Equal(t, domain.LegSideDebit, legs[0].Side)
	assert.Equal(t, "cash:V01", legs[0].Reference)
	assert.Equal(t, domain.LegSideCredit, legs[1].Side)
	assert.Equal(t, testDrawer, legs[1].Reference)
}

func TestRecipeServiceVaultTransferRejectsSameEndpoints(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:                 domain.TransactionTypeVaultTransfer,
		AmountCents:          4000,
		VaultDirection:       domain.VaultDirectionVaultToVault,
		SourceReference:      "cash:V01",
		DestinationReference: "cash:V01",
	}, testDrawer)

	assert.Empty(t, legs)
}

func TestRecipeServiceCheckCashing(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:        domain.TransactionTypeCheckCashing,
		AmountCents: 9500,
		FeeCents:    500,
		CheckItems: []domain.CheckItem{
			{Reference: "check:021000021:44:120", AmountCents: 10000},
		},
	}, testDrawer)

	require.Len(t, legs, 3)
	assert.Equal(t, "check:021000021:44:120", legs[0].Reference)
	assert.Equal(t, "transit", legs[0].Parsed.CheckType)
	assert.Equal(t, domain.LegSideCredit, legs[1].Side)
	assert.Equal(t, testDrawer, legs[1].Reference)
	assert.Equal(t, int64(9500), legs[1].AmountCents)
	assert.Equal(t, "income:check_cashing_fee", legs[2].Reference)
	require.NoError(t, domain.CheckBalance(legs))
}

func TestRecipeServiceCheckCashingAmountMismatch(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:        domain.TransactionTypeCheckCashing,
		AmountCents: 10000,
		FeeCents:    500,
		CheckItems: []domain.CheckItem{
			{Reference: "check:021000021:44:120", AmountCents: 10000},
		},
	}, testDrawer)

	assert.Empty(t, legs)
}

func TestRecipeServiceDraftCashFunded(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:               domain.TransactionTypeDraft,
		AmountCents:        30000,
		FeeCents:           1000,
		CashAmountCents:    31000,
		LiabilityReference: "official_check:branch01",
		PayeeName:          "Pat Doe",
		InstrumentNumber:   "000452",
	}, testDrawer)

	require.Len(t, legs, 3)
	assert.Equal(t, testDrawer, legs[0].Reference)
	assert.Equal(t, int64(31000), legs[0].AmountCents)
	assert.Equal(t, "official_check:branch01", legs[1].Reference)
	assert.Equal(t, int64(30000), legs[1].AmountCents)
	assert.Equal(t, "income:draft_fee", legs[2].Reference)
	require.NoError(t, domain.CheckBalance(legs))
}

func TestRecipeServiceDraftPaymentShortfall(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:               domain.TransactionTypeDraft,
		AmountCents:        30000,
		FeeCents:           1000,
		CashAmountCents:    30000,
		LiabilityReference: "official_check:branch01",
	}, testDrawer)

	assert.Empty(t, legs)
}

func TestRecipeServiceMiscReceipt(t *testing.T) {
	svc := newRecipeService()

	_, legs := svc.BuildLegs(domain.RecipeInput{
		Type:            domain.TransactionTypeMiscReceipt,
		AmountCents:     1500,
		CashAmountCents: 1500,
		IncomeReference: "income:safe_deposit_box",
		Memo:            "box 112 annual rent",
	}, testDrawer)

	require.Len(t, legs, 2)
	assert.Equal(t, testDrawer, legs[0].Reference)
	assert.Equal(t, "income:safe_deposit_box", legs[1].Reference)
	require.NoError(t, domain.CheckBalance(legs))
}
