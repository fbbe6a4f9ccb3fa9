package dto

// TopupRequest is the request body for POST /topup. The canonical card
// identifier field is card_uid; uid and holderName are accepted as legacy
// aliases used by older device tooling.
type TopupRequest struct {
	CardUID          string  `json:"card_uid"`
	LegacyUID        string  `json:"uid"`
	Amount           int64   `json:"amount"`
	HolderName       string  `json:"holder_name"`
	LegacyHolderName string  `json:"holderName"`
}

// ResolveCardUID returns the canonical card identifier.
func (r *TopupRequest) ResolveCardUID() string {
	if r.CardUID != "" {
		return r.CardUID
	}
	return r.LegacyUID
}

// ResolveHolderName returns the holder name from either field.
func (r *TopupRequest) ResolveHolderName() string {
	if r.HolderName != "" {
		return r.HolderName
	}
	return r.LegacyHolderName
}

// PayRequest is the request body for POST /pay.
type PayRequest struct {
	CardUID   string  `json:"card_uid"`
	LegacyUID string  `json:"uid"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// ResolveCardUID returns the canonical card identifier.
func (r *PayRequest) ResolveCardUID() string {
	if r.CardUID != "" {
		return r.CardUID
	}
	return r.LegacyUID
}

// CardResponse is the card snapshot returned by wallet and query endpoints.
type CardResponse struct {
	CardUID    string `json:"card_uid"`
	HolderName string `json:"holder_name"`
	Balance    int64  `json:"balance"`
	LastTopup  int64  `json:"last_topup"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// TransactionResponse is a single ledger entry.
type TransactionResponse struct {
	ID            string  `json:"id"`
	CardUID       string  `json:"card_uid"`
	Amount        int64   `json:"amount"`
	Type          string  `json:"type"`
	BalanceBefore int64   `json:"balance_before"`
	BalanceAfter  int64   `json:"balance_after"`
	ProductID     *string `json:"product_id,omitempty"`
	ProductName   *string `json:"product_name,omitempty"`
	Description   string  `json:"description"`
	CreatedAt     string  `json:"created_at"`
}

// TopupResponse is the success body for POST /topup.
type TopupResponse struct {
	Message     string              `json:"message"`
	Card        CardResponse        `json:"card"`
	Transaction TransactionResponse `json:"transaction"`
}

// PayResponse is the success body for POST /pay.
type PayResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CardUID     string `json:"card_uid"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
	NewBalance  int64  `json:"new_balance"`
	TxID        string `json:"transaction_id"`
}

// ProductResponse is a catalog entry.
type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
