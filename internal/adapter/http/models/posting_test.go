package models

import (
	"testing"

	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostingRequest() SubmitPostingRequest {
	return SubmitPostingRequest{
		RequestID:        "req-1",
		ActorID:          "teller-01",
		SessionID:        "sess-01",
		WorkstationID:    "ws-7",
		TransactionType:  "deposit",
		Amount:           "200.00",
		Currency:         "usd",
		PrimaryReference: "acct:1100045566",
	}
}

func TestSubmitPostingRequestValidate(t *testing.T) {
	require.NoError(t, validPostingRequest().Validate())

	req := validPostingRequest()
	req.RequestID = " "
	assert.ErrorContains(t, req.Validate(), "requestId is required")

	req = validPostingRequest()
	req.TransactionType = "purchase"
	assert.ErrorContains(t, req.Validate(), "transactionType is not supported")

	req = validPostingRequest()
	req.Amount = "200.005"
	assert.ErrorContains(t, req.Validate(), "amount must be a valid decimal")

	req = validPostingRequest()
	req.Amount = "-5"
	assert.ErrorContains(t, req.Validate(), "amount must be greater than zero")

	req = validPostingRequest()
	req.Currency = "US"
	assert.ErrorContains(t, req.Validate(), "currency must be 3 characters")

	req = validPostingRequest()
	req.Entries = []PostingEntry{{Side: "both", AccountReference: "acct:1", Amount: "1.00"}}
	assert.ErrorContains(t, req.Validate(), "entries[0].side must be DEBIT or CREDIT")
}

func TestSubmitPostingRequestRecipeInput(t *testing.T) {
	req := validPostingRequest()
	req.Fee = "2.50"
	req.CashBack = "50.00"
	req.CheckItems = []CheckItemPayload{{Reference: "check:021000021:55:901", Amount: "150.00", Type: "on_us"}}
	req.Entries = []PostingEntry{
		{Side: "debit", AccountReference: "cash:tendered", Amount: "100.00"},
		{Side: "DEBIT", AccountReference: "check:021000021:55:901", Amount: "150.00"},
	}

	input, err := req.RecipeInput()
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionTypeDeposit, input.Type)
	assert.Equal(t, int64(20000), input.AmountCents)
	assert.Equal(t, int64(250), input.FeeCents)
	assert.Equal(t, int64(5000), input.CashBackCents)
	require.Len(t, input.CheckItems, 1)
	assert.Equal(t, int64(15000), input.CheckItems[0].AmountCents)
	require.Len(t, input.ExplicitLegs, 2)
	assert.Equal(t, domain.LegSideDebit, input.ExplicitLegs[0].Side)
	assert.Equal(t, int64(10000), input.ExplicitLegs[0].AmountCents)
	assert.Equal(t, 1, input.ExplicitLegs[1].Position)
}

func TestSubmitPostingRequestRecipeInputBadDecimal(t *testing.T) {
	req := validPostingRequest()
	req.Fee = "abc"
	_, err := req.RecipeInput()
	assert.ErrorContains(t, err, "fee")
}

func TestSubmitReversalRequestValidate(t *testing.T) {
	req := SubmitReversalRequest{
		RequestID:             "req-2",
		ActorID:               "teller-01",
		SessionID:             "sess-01",
		WorkstationID:         "ws-7",
		OriginalTransactionID: "txn-9",
		ReasonCode:            "teller_error",
	}
	require.NoError(t, req.Validate())

	req.OriginalTransactionID = ""
	req.ReasonCode = ""
	err := req.Validate()
	assert.ErrorContains(t, err, "originalTransactionId is required")
	assert.ErrorContains(t, err, "reasonCode is required")
}

func TestRecordVarianceRequestValidate(t *testing.T) {
	req := RecordVarianceRequest{
		SessionID:      "sess-01",
		ActorID:        "teller-01",
		WorkstationID:  "ws-7",
		Flow:           "close",
		DeclaredAmount: "90.00",
		ExpectedAmount: "100.00",
		Currency:       "USD",
	}
	require.NoError(t, req.Validate())

	req.Flow = "audit"
	assert.ErrorContains(t, req.Validate(), "flow must be handoff or close")
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "200.00", want: 20000},
		{raw: "0.01", want: 1},
		{raw: "95", want: 9500},
		{raw: "1.005", wantErr: true},
		{raw: "abc", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseCents(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
