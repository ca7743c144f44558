package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusPosted TransactionStatus = "POSTED"
)

type BatchStatus string

const (
	BatchStatusCommitted BatchStatus = "COMMITTED"
)

type CashDirection string

const (
	CashDirectionIn  CashDirection = "IN"
	CashDirectionOut CashDirection = "OUT"
)

func (d CashDirection) Flip() CashDirection {
	if d == CashDirectionIn {
		return CashDirectionOut
	}
	return CashDirectionIn
}

// TellerTransaction is the customer-facing operation record, 1:1 with a
// PostingBatch. Only the reversal-linkage fields are ever mutated after
// commit, and only by the reversal's own transaction.
type TellerTransaction struct {
	ID                      string
	Type                    TransactionType
	AmountCents             int64
	Currency                string
	Status                  TransactionStatus
	ActorID                 string
	SessionID               string
	BranchID                string
	WorkstationID           string
	ApproverID              *string
	PostedAt                time.Time
	ReversalOfTransactionID *string
	ReversedByTransactionID *string
	ReversedAt              *time.Time
	ReversalReasonCode      *string
	ReversalMemo            *string
}

// PostingBatch is the atomic commit unit. RequestID is the caller-supplied
// idempotency key and is unique across all batches.
type PostingBatch struct {
	ID                string
	TransactionID     string
	RequestID         string
	Currency          string
	Status            BatchStatus
	Metadata          map[string]any
	CommittedAt       time.Time
	ReversalOfBatchID *string
}

type PostingLeg struct {
	ID                  string
	BatchID             string
	Side                LegSide
	Reference           string
	AmountCents         int64
	Position            int
	ReferenceType       ReferenceType
	ReferenceIdentifier string
	CheckRoutingNumber  string
	CheckAccountNumber  string
	CheckNumber         string
	CheckType           string
}

// AccountTransaction exists for every leg that touches a customer-facing
// account. AccountID is resolved best-effort and may be nil when the
// reference does not match a known account.
type AccountTransaction struct {
	ID          string
	BatchID     string
	LegPosition int
	Direction   LegSide
	AmountCents int64
	Reference   string
	AccountID   *string
	Description string
	CreatedAt   time.Time
}

// CashMovement is the net effect of a batch on the teller's assigned
// drawer. At most one exists per batch.
type CashMovement struct {
	ID          string
	BatchID     string
	Direction   CashDirection
	AmountCents int64
	CreatedAt   time.Time
}

// CommittedBatch is the full committed result returned to callers.
type CommittedBatch struct {
	Transaction         TellerTransaction
	Batch               PostingBatch
	Legs                []PostingLeg
	AccountTransactions []AccountTransaction
	CashMovement        *CashMovement
}

// AccountTransactionInput is a to-be-persisted account transaction row; the
// store resolves the account id and assigns ids/timestamps.
type AccountTransactionInput struct {
	LegPosition int
	Direction   LegSide
	AmountCents int64
	Reference   string
	Description string
}

type CashMovementInput struct {
	Direction   CashDirection
	AmountCents int64
}

// BatchCommit is the single atomic unit of work handed to the posting
// store: one teller transaction, one batch, N legs, N account transactions
// and at most one cash movement. All writes succeed or none do.
type BatchCommit struct {
	RequestID               string
	Transaction             TellerTransaction
	Metadata                map[string]any
	Legs                    []Leg
	AccountTransactions     []AccountTransactionInput
	CashMovement            *CashMovementInput
	ReversalOfTransactionID *string
	ReversalOfBatchID       *string
}
