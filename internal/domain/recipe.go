package domain

// CheckItem is one negotiable check presented by the customer.
type CheckItem struct {
	Reference   string
	AmountCents int64
	Type        string
}

// RecipeInput is the raw, UI-shaped input for one teller operation. The
// recipe builder turns it into a metadata object and a final leg list;
// only the fields relevant to the transaction type are consulted.
type RecipeInput struct {
	Type                  TransactionType
	AmountCents           int64
	PrimaryReference      string
	CounterpartyReference string
	FeeCents              int64
	CashAmountCents       int64
	CashBackCents         int64
	AccountAmountCents    int64
	CheckItems            []CheckItem
	VaultDirection        VaultDirection
	SourceReference       string
	DestinationReference  string
	LiabilityReference    string
	IncomeReference       string
	PayeeName             string
	InstrumentNumber      string
	ReasonCode            string
	Memo                  string
	PartyID               string
	IDType                string
	IDNumber              string
	ExplicitLegs          []Leg
}
