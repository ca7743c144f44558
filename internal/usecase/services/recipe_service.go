package services

import (
	"strings"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

// RecipeService turns raw, UI-shaped input into a metadata object and a
// final, enriched leg list for the posting engine. It never fails: input
// that cannot produce a coherent double entry yields an empty leg list,
// which the engine's validator rejects upstream.
type RecipeService struct {
	transferFeeReference     string
	checkCashingFeeReference string
	draftFeeReference        string
}

func NewRecipeService(transferFeeReference, checkCashingFeeReference, draftFeeReference string) *RecipeService {
	return &RecipeService{
		transferFeeReference:     strings.TrimSpace(transferFeeReference),
		checkCashingFeeReference: strings.TrimSpace(checkCashingFeeReference),
		draftFeeReference:        strings.TrimSpace(draftFeeReference),
	}
}

func (s *RecipeService) BuildLegs(input domain.RecipeInput, drawerReference string) (map[string]any, []domain.Leg) {
	var legs []domain.Leg

	switch input.Type {
	case domain.TransactionTypeDeposit:
		legs = s.depositLegs(input, drawerReference)
	case domain.TransactionTypeWithdrawal:
		// Explicit legs are ignored for withdrawals; the shape is fixed.
		legs = s.withdrawalLegs(input, drawerReference)
	case domain.TransactionTypeTransfer:
		if len(input.ExplicitLegs) > 0 {
			legs = input.ExplicitLegs
		} else {
			legs = s.transferLegs(input)
		}
	case domain.TransactionTypeVaultTransfer:
		if len(input.ExplicitLegs) > 0 {
			legs = input.ExplicitLegs
		} else {
			legs = s.vaultTransferLegs(input, drawerReference)
		}
	case domain.TransactionTypeCheckCashing:
		if len(input.ExplicitLegs) > 0 {
			legs = input.ExplicitLegs
		} else {
			legs = s.checkCashingLegs(input, drawerReference)
		}
	case domain.TransactionTypeDraft:
		if len(input.ExplicitLegs) > 0 {
			legs = input.ExplicitLegs
		} else {
			legs = s.draftLegs(input, drawerReference)
		}
	case domain.TransactionTypeMiscReceipt:
		if len(input.ExplicitLegs) > 0 {
			legs = input.ExplicitLegs
		} else {
			legs = s.miscReceiptLegs(input, drawerReference)
		}
	default:
		legs = input.ExplicitLegs
	}

	return recipeMetadata(input), finalizeLegs(legs, input.CheckItems)
}

// depositLegs normalizes explicit debit legs onto the drawer (check legs
// excepted) and appends the computed cash-back and primary-account credits.
// Without explicit legs it generates the plain cash deposit pair.
func (s *RecipeService) depositLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	if len(input.ExplicitLegs) > 0 {
		var legs []domain.Leg
		var total int64
		for _, leg := range input.ExplicitLegs {
			if leg.Side != domain.LegSideDebit {
				continue
			}
			reference := leg.Reference
			if domain.ParseReference(reference).Type != domain.ReferenceTypeCheckClearing {
				reference = drawerReference
			}
			legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: reference, AmountCents: leg.AmountCents})
			total += leg.AmountCents
		}

		cashBack := input.CashBackCents
		if cashBack > total {
			cashBack = total
		}
		if cashBack > 0 {
			legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: drawerReference, AmountCents: cashBack})
		}
		if total-cashBack > 0 {
			legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: input.PrimaryReference, AmountCents: total - cashBack})
		}
		return legs
	}

	cash := input.CashAmountCents
	if cash == 0 {
		cash = input.AmountCents
	}
	return []domain.Leg{
		{Side: domain.LegSideDebit, Reference: drawerReference, AmountCents: cash},
		{Side: domain.LegSideCredit, Reference: input.PrimaryReference, AmountCents: input.AmountCents},
	}
}

func (s *RecipeService) withdrawalLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	return []domain.Leg{
		{Side: domain.LegSideDebit, Reference: input.PrimaryReference, AmountCents: input.AmountCents},
		{Side: domain.LegSideCredit, Reference: drawerReference, AmountCents: input.AmountCents},
	}
}

func (s *RecipeService) transferLegs(input domain.RecipeInput) []domain.Leg {
	legs := []domain.Leg{
		{Side: domain.LegSideDebit, Reference: input.PrimaryReference, AmountCents: input.AmountCents},
		{Side: domain.LegSideCredit, Reference: input.CounterpartyReference, AmountCents: input.AmountCents - input.FeeCents},
	}
	if input.FeeCents > 0 {
		legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: s.transferFeeReference, AmountCents: input.FeeCents})
	}
	return legs
}

// vaultTransferLegs resolves which endpoint is the drawer, then produces a
// single debit/credit pair. Blank or equal endpoints yield no legs.
func (s *RecipeService) vaultTransferLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	var source, destination string
	switch input.VaultDirection {
	case domain.VaultDirectionDrawerToVault:
		source, destination = drawerReference, input.DestinationReference
	case domain.VaultDirectionVaultToDrawer:
		source, destination = input.SourceReference, drawerReference
	case domain.VaultDirectionVaultToVault:
		source, destination = input.SourceReference, input.DestinationReference
	default:
		return nil
	}

	if source == "" || destination == "" || source == destination {
		return nil
	}

	return []domain.Leg{
		{Side: domain.LegSideDebit, Reference: destination, AmountCents: input.AmountCents},
		{Side: domain.LegSideCredit, Reference: source, AmountCents: input.AmountCents},
	}
}

// checkCashingLegs debits every positive check item and credits the drawer
// for the net payout. The requested amount must equal the net payout
// exactly or no legs are produced.
func (s *RecipeService) checkCashingLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	var legs []domain.Leg
	var checkTotal int64
	for _, item := range input.CheckItems {
		if item.AmountCents <= 0 {
			continue
		}
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: item.Reference, AmountCents: item.AmountCents})
		checkTotal += item.AmountCents
	}
	if len(legs) == 0 {
		return nil
	}

	netPayout := checkTotal - input.FeeCents
	if netPayout <= 0 || input.AmountCents != netPayout {
		return nil
	}

	legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: drawerReference, AmountCents: netPayout})
	if input.FeeCents > 0 {
		legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: s.checkCashingFeeReference, AmountCents: input.FeeCents})
	}
	return legs
}

// draftLegs debits the cash, check and account payments funding the draft
// and credits the liability reference for the face amount. Payments must
// cover face amount plus fee exactly.
func (s *RecipeService) draftLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	if input.AmountCents <= 0 || strings.TrimSpace(input.LiabilityReference) == "" {
		return nil
	}

	var legs []domain.Leg
	var paid int64

	if input.CashAmountCents > 0 {
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: drawerReference, AmountCents: input.CashAmountCents})
		paid += input.CashAmountCents
	}
	for _, item := range input.CheckItems {
		if item.AmountCents <= 0 {
			continue
		}
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: item.Reference, AmountCents: item.AmountCents})
		paid += item.AmountCents
	}
	if input.AccountAmountCents > 0 && strings.TrimSpace(input.PrimaryReference) != "" {
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: input.PrimaryReference, AmountCents: input.AccountAmountCents})
		paid += input.AccountAmountCents
	}

	if paid != input.AmountCents+input.FeeCents {
		return nil
	}

	legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: input.LiabilityReference, AmountCents: input.AmountCents})
	if input.FeeCents > 0 {
		legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: s.draftFeeReference, AmountCents: input.FeeCents})
	}
	return legs
}

// miscReceiptLegs mirrors the draft payment-sum invariant: the cash, check
// and account payments must equal the receipt amount, credited to the
// income reference.
func (s *RecipeService) miscReceiptLegs(input domain.RecipeInput, drawerReference string) []domain.Leg {
	if input.AmountCents <= 0 || strings.TrimSpace(input.IncomeReference) == "" {
		return nil
	}

	var legs []domain.Leg
	var paid int64

	if input.CashAmountCents > 0 {
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: drawerReference, AmountCents: input.CashAmountCents})
		paid += input.CashAmountCents
	}
	for _, item := range input.CheckItems {
		if item.AmountCents <= 0 {
			continue
		}
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: item.Reference, AmountCents: item.AmountCents})
		paid += item.AmountCents
	}
	if input.AccountAmountCents > 0 && strings.TrimSpace(input.PrimaryReference) != "" {
		legs = append(legs, domain.Leg{Side: domain.LegSideDebit, Reference: input.PrimaryReference, AmountCents: input.AccountAmountCents})
		paid += input.AccountAmountCents
	}

	if paid != input.AmountCents {
		return nil
	}

	legs = append(legs, domain.Leg{Side: domain.LegSideCredit, Reference: input.IncomeReference, AmountCents: input.AmountCents})
	return legs
}

// finalizeLegs assigns stable positions and enriches every leg through the
// reference parser. Check legs pick up their check type from the matching
// check item, defaulting to transit.
func finalizeLegs(legs []domain.Leg, checkItems []domain.CheckItem) []domain.Leg {
	finalized := make([]domain.Leg, 0, len(legs))
	for i, leg := range legs {
		leg.Position = i
		leg.Parsed = domain.ParseReference(leg.Reference)
		if leg.Parsed.Type == domain.ReferenceTypeCheckClearing {
			leg.Parsed.CheckType = checkTypeFor(checkItems, leg.Reference)
		}
		finalized = append(finalized, leg)
	}
	return finalized
}

func checkTypeFor(checkItems []domain.CheckItem, reference string) string {
	for _, item := range checkItems {
		if item.Reference == reference && strings.TrimSpace(item.Type) != "" {
			return item.Type
		}
	}
	return "transit"
}

func recipeMetadata(input domain.RecipeInput) map[string]any {
	meta := map[string]any{}
	if input.FeeCents > 0 {
		meta["fee_cents"] = input.FeeCents
	}
	if input.CashBackCents > 0 {
		meta["cash_back_cents"] = input.CashBackCents
	}
	if input.CashAmountCents > 0 {
		meta["cash_amount_cents"] = input.CashAmountCents
	}
	if input.AccountAmountCents > 0 {
		meta["account_amount_cents"] = input.AccountAmountCents
	}
	if input.VaultDirection != "" {
		meta["vault_direction"] = string(input.VaultDirection)
	}
	if input.ReasonCode != "" {
		meta["reason_code"] = input.ReasonCode
	}
	if input.PayeeName != "" {
		meta["payee_name"] = input.PayeeName
	}
	if input.InstrumentNumber != "" {
		meta["instrument_number"] = input.InstrumentNumber
	}
	if input.Memo != "" {
		meta["memo"] = input.Memo
	}
	if input.PartyID != "" {
		meta["party_id"] = input.PartyID
	}
	if input.IDType != "" {
		meta["id_type"] = input.IDType
	}
	if input.IDNumber != "" {
		meta["id_number"] = input.IDNumber
	}
	return meta
}
