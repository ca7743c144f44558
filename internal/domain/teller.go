package domain

import "time"

type Branch struct {
	ID   string
	Code string
	Name string
}

// TellerContext carries the teller-session facts every posting decision
// needs. The drawer is threaded explicitly instead of being looked up from
// ambient session state.
type TellerContext struct {
	ActorID       string
	SessionID     string
	SessionOpen   bool
	Branch        Branch
	WorkstationID string
	DrawerCode    string
}

func (t TellerContext) DrawerAssigned() bool {
	return t.DrawerCode != ""
}

// DrawerReference returns the drawer's cash:<code> reference, or an empty
// string when no drawer is assigned.
func (t TellerContext) DrawerReference() string {
	if t.DrawerCode == "" {
		return ""
	}
	return CashReference(t.DrawerCode)
}

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

type TellerSession struct {
	ID               string
	TellerID         string
	BranchID         string
	BranchCode       string
	BranchName       string
	WorkstationID    string
	Status           SessionStatus
	CashLocationCode *string
	OpenedAt         time.Time
	ClosedAt         *time.Time
}

// PostingRequest is the ephemeral submit-posting input. Legs are already
// finalized by the recipe builder before the engine sees them.
type PostingRequest struct {
	Teller      TellerContext
	RequestID   string
	Type        TransactionType
	AmountCents int64
	Currency    string
	Legs        []Leg
	Metadata    map[string]any
	ApproverID  *string
}

// ReversalRequest asks for a prior teller transaction to be undone via a
// linked, inverted re-posting.
type ReversalRequest struct {
	Teller                TellerContext
	RequestID             string
	OriginalTransactionID string
	ReasonCode            string
	Memo                  string
	ApproverID            *string
}
