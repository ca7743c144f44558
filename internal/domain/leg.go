package domain

import "fmt"

type LegSide string

const (
	LegSideDebit  LegSide = "DEBIT"
	LegSideCredit LegSide = "CREDIT"
)

func (s LegSide) Valid() bool {
	return s == LegSideDebit || s == LegSideCredit
}

func (s LegSide) Flip() LegSide {
	if s == LegSideDebit {
		return LegSideCredit
	}
	return LegSideDebit
}

// Leg is one debit or credit line within a posting. Parsed carries the
// reference enrichment produced by ParseReference.
type Leg struct {
	Side        LegSide
	Reference   string
	AmountCents int64
	Position    int
	Parsed      AccountReference
}

// DebitTotal sums the debit side of a leg list in cents.
func DebitTotal(legs []Leg) int64 {
	var total int64
	for _, leg := range legs {
		if leg.Side == LegSideDebit {
			total += leg.AmountCents
		}
	}
	return total
}

// CreditTotal sums the credit side of a leg list in cents.
func CreditTotal(legs []Leg) int64 {
	var total int64
	for _, leg := range legs {
		if leg.Side == LegSideCredit {
			total += leg.AmountCents
		}
	}
	return total
}

// CheckBalance verifies exact debit/credit equality. Integer cents, no
// tolerance window.
func CheckBalance(legs []Leg) error {
	debits := DebitTotal(legs)
	credits := CreditTotal(legs)
	if debits != credits {
		return fmt.Errorf("%w: debits %d, credits %d", ErrUnbalanced, debits, credits)
	}
	return nil
}
