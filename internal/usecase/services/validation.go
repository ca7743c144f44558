package services

import (
	"fmt"
	"strings"

	"github.com/api-sage/teller-posting-engine/internal/domain"
)

// validatePostingRequest enforces the required-field and positivity rules.
// It runs before any policy check so malformed requests never reach
// business rules.
func validatePostingRequest(req domain.PostingRequest) error {
	var errs []string

	if strings.TrimSpace(req.Teller.ActorID) == "" {
		errs = append(errs, "actor is required")
	}
	if strings.TrimSpace(req.Teller.SessionID) == "" {
		errs = append(errs, "teller session is required")
	}
	if strings.TrimSpace(req.Teller.Branch.ID) == "" && strings.TrimSpace(req.Teller.Branch.Code) == "" {
		errs = append(errs, "branch is required")
	}
	if strings.TrimSpace(req.Teller.WorkstationID) == "" {
		errs = append(errs, "workstation is required")
	}
	if strings.TrimSpace(req.RequestID) == "" {
		errs = append(errs, "requestId is required")
	}
	if !req.Type.Valid() {
		errs = append(errs, "transaction type is not supported")
	} else if req.Type == domain.TransactionTypeReversal {
		// Reversals carry linkage the direct path cannot establish.
		errs = append(errs, "reversals must be submitted through the reversal flow")
	}
	if req.AmountCents <= 0 {
		errs = append(errs, "amount must be greater than zero")
	}
	if strings.TrimSpace(req.Currency) == "" {
		errs = append(errs, "currency is required")
	}
	if len(req.Legs) == 0 {
		errs = append(errs, "at least one posting leg is required")
	}
	for _, leg := range req.Legs {
		if !leg.Side.Valid() {
			errs = append(errs, fmt.Sprintf("leg %d has an invalid side", leg.Position))
		}
		if leg.AmountCents <= 0 {
			errs = append(errs, fmt.Sprintf("leg %d amount must be greater than zero", leg.Position))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

// checkPolicy enforces the teller-session preconditions. A drawer is
// required when the type is cash-affecting by definition, or when any leg
// targets the currently assigned drawer's cash reference.
func checkPolicy(teller domain.TellerContext, txType domain.TransactionType, legs []domain.Leg) error {
	if !teller.SessionOpen {
		return fmt.Errorf("%w: teller session is not open", domain.ErrPolicy)
	}

	drawerRequired := txType.RequiresDrawer()
	if !drawerRequired && teller.DrawerAssigned() {
		drawerReference := teller.DrawerReference()
		for _, leg := range legs {
			if leg.Reference == drawerReference {
				drawerRequired = true
				break
			}
		}
	}

	if drawerRequired && !teller.DrawerAssigned() {
		return fmt.Errorf("%w: transaction requires an assigned drawer", domain.ErrPolicy)
	}
	return nil
}
