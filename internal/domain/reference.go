package domain

import "strings"

type ReferenceType string

const (
	ReferenceTypeCashLocation    ReferenceType = "cash_location"
	ReferenceTypeCheckClearing   ReferenceType = "check_clearing"
	ReferenceTypeIncome          ReferenceType = "income"
	ReferenceTypeLiability       ReferenceType = "liability"
	ReferenceTypeExpense         ReferenceType = "expense"
	ReferenceTypeCustomerAccount ReferenceType = "customer_account"
	ReferenceTypeNone            ReferenceType = "none"
)

const (
	cashReferencePrefix          = "cash:"
	checkReferencePrefix         = "check:"
	incomeReferencePrefix        = "income:"
	officialCheckReferencePrefix = "official_check:"
	expenseReferencePrefix       = "expense:"
	customerAccountPrefix        = "acct:"
)

// AccountReference is the parsed form of a tagged account-reference string.
// It is produced once by ParseReference at the boundary; downstream code
// switches on Type instead of re-testing string prefixes.
type AccountReference struct {
	Raw                string
	Type               ReferenceType
	Identifier         string
	CheckRoutingNumber string
	CheckAccountNumber string
	CheckNumber        string
	CheckType          string
}

// CashReference builds the tagged reference for a cash location code.
func CashReference(code string) string {
	return cashReferencePrefix + code
}

// IncomeReference builds the tagged reference for an income category.
func IncomeReference(name string) string {
	return incomeReferencePrefix + name
}

// ExpenseReference builds the tagged reference for an expense category.
func ExpenseReference(name string) string {
	return expenseReferencePrefix + name
}

// ParseReference classifies a tagged account-reference string. It never
// fails: unknown shapes fall back to customer_account and a blank string
// parses to ReferenceTypeNone with every field empty. CheckType is supplied
// out of band by the recipe builder, never by the reference itself.
func ParseReference(raw string) AccountReference {
	if strings.TrimSpace(raw) == "" {
		return AccountReference{Type: ReferenceTypeNone}
	}

	switch {
	case strings.HasPrefix(raw, cashReferencePrefix):
		return AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeCashLocation,
			Identifier: strings.TrimPrefix(raw, cashReferencePrefix),
		}
	case strings.HasPrefix(raw, checkReferencePrefix):
		ref := AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeCheckClearing,
			Identifier: raw,
		}
		parts := strings.Split(strings.TrimPrefix(raw, checkReferencePrefix), ":")
		if len(parts) > 0 {
			ref.CheckRoutingNumber = parts[0]
		}
		if len(parts) > 1 {
			ref.CheckAccountNumber = parts[1]
		}
		if len(parts) > 2 {
			ref.CheckNumber = parts[2]
		}
		return ref
	case strings.HasPrefix(raw, incomeReferencePrefix):
		return AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeIncome,
			Identifier: strings.TrimPrefix(raw, incomeReferencePrefix),
		}
	case strings.HasPrefix(raw, officialCheckReferencePrefix):
		return AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeLiability,
			Identifier: strings.TrimPrefix(raw, officialCheckReferencePrefix),
		}
	case strings.HasPrefix(raw, expenseReferencePrefix):
		return AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeExpense,
			Identifier: strings.TrimPrefix(raw, expenseReferencePrefix),
		}
	default:
		return AccountReference{
			Raw:        raw,
			Type:       ReferenceTypeCustomerAccount,
			Identifier: strings.TrimPrefix(raw, customerAccountPrefix),
		}
	}
}

// IsCustomerFacing reports whether the reference resolves to a customer
// account rather than an internal ledger bucket.
func (r AccountReference) IsCustomerFacing() bool {
	return r.Type == ReferenceTypeCustomerAccount
}
