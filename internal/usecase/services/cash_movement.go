package services

import "github.com/api-sage/teller-posting-engine/internal/domain"

// deriveCashMovement nets the drawer-touching legs into at most one cash
// movement. effectiveType is the original transaction type for reversals so
// that reversing a variance correction stays movement-free, like its
// original. Variance corrections themselves never re-record the drawer
// count they are fixing.
func deriveCashMovement(legs []domain.Leg, drawerCode string, effectiveType domain.TransactionType) *domain.CashMovementInput {
	if drawerCode == "" || effectiveType.IsVarianceCorrection() {
		return nil
	}

	drawerReference := domain.CashReference(drawerCode)
	var net int64
	for _, leg := range legs {
		if leg.Reference != drawerReference {
			continue
		}
		if leg.Side == domain.LegSideDebit {
			net += leg.AmountCents
		} else {
			net -= leg.AmountCents
		}
	}

	switch {
	case net > 0:
		return &domain.CashMovementInput{Direction: domain.CashDirectionIn, AmountCents: net}
	case net < 0:
		return &domain.CashMovementInput{Direction: domain.CashDirectionOut, AmountCents: -net}
	default:
		return nil
	}
}
