package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want AccountReference
	}{
		{
			name: "cash location",
			raw:  "cash:D01",
			want: AccountReference{Raw: "cash:D01", Type: ReferenceTypeCashLocation, Identifier: "D01"},
		},
		{
			name: "check with routing, account and number",
			raw:  "check:021000021:123456:9955",
			want: AccountReference{
				Raw:                "check:021000021:123456:9955",
				Type:               ReferenceTypeCheckClearing,
				Identifier:         "check:021000021:123456:9955",
				CheckRoutingNumber: "021000021",
				CheckAccountNumber: "123456",
				CheckNumber:        "9955",
			},
		},
		{
			name: "check with routing only",
			raw:  "check:021000021",
			want: AccountReference{
				Raw:                "check:021000021",
				Type:               ReferenceTypeCheckClearing,
				Identifier:         "check:021000021",
				CheckRoutingNumber: "021000021",
			},
		},
		{
			name: "income",
			raw:  "income:transfer_fee",
			want: AccountReference{Raw: "income:transfer_fee", Type: ReferenceTypeIncome, Identifier: "transfer_fee"},
		},
		{
			name: "official check liability",
			raw:  "official_check:branch01",
			want: AccountReference{Raw: "official_check:branch01", Type: ReferenceTypeLiability, Identifier: "branch01"},
		},
		{
			name: "expense",
			raw:  "expense:cash_short",
			want: AccountReference{Raw: "expense:cash_short", Type: ReferenceTypeExpense, Identifier: "cash_short"},
		},
		{
			name: "tagged customer account",
			raw:  "acct:1100045566",
			want: AccountReference{Raw: "acct:1100045566", Type: ReferenceTypeCustomerAccount, Identifier: "1100045566"},
		},
		{
			name: "bare customer account",
			raw:  "1100045566",
			want: AccountReference{Raw: "1100045566", Type: ReferenceTypeCustomerAccount, Identifier: "1100045566"},
		},
		{
			name: "blank",
			raw:  "   ",
			want: AccountReference{Type: ReferenceTypeNone},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseReference(tc.raw))
		})
	}
}

func TestIsCustomerFacing(t *testing.T) {
	assert.True(t, ParseReference("acct:1100045566").IsCustomerFacing())
	assert.True(t, ParseReference("1100045566").IsCustomerFacing())
	assert.False(t, ParseReference("cash:D01").IsCustomerFacing())
	assert.False(t, ParseReference("income:fees").IsCustomerFacing())
	assert.False(t, ParseReference("").IsCustomerFacing())
}

func TestCheckBalance(t *testing.T) {
	balanced := []Leg{
		{Side: LegSideDebit, Reference: "cash:D01", AmountCents: 20000},
		{Side: LegSideCredit, Reference: "acct:1100045566", AmountCents: 20000},
	}
	require.NoError(t, CheckBalance(balanced))

	unbalanced := []Leg{
		{Side: LegSideDebit, Reference: "cash:D01", AmountCents: 20000},
		{Side: LegSideCredit, Reference: "acct:1100045566", AmountCents: 19999},
	}
	err := CheckBalance(unbalanced)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalanced))
}

func TestLegSideFlip(t *testing.T) {
	assert.Equal(t, LegSideCredit, LegSideDebit.Flip())
	assert.Equal(t, LegSideDebit, LegSideCredit.Flip())
}
