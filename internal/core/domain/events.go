package domain

// Wire shapes exchanged with field hardware over the device bus and pushed
// to dashboard observers. Field names are the external contract; the
// backend's card_uid is canonical (the firmware's legacy "uid" key is an
// HTTP-boundary alias only).

// CardStatusEvent is published by a reader when a card is presented.
type CardStatusEvent struct {
	CardUID string `json:"uid"`
	Balance *int64 `json:"balance,omitempty"`
}

// TopupCommand instructs the device to write the new balance after a
// committed top-up.
type TopupCommand struct {
	CardUID    string `json:"uid"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"newBalance"`
}

// PaymentCommand instructs the device to confirm a committed debit.
type PaymentCommand struct {
	CardUID    string `json:"card_uid"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"newBalance"`
}

// CardNotification is the observer snapshot pushed when a card is detected.
type CardNotification struct {
	CardUID    string `json:"card_uid"`
	Balance    int64  `json:"balance"`
	HolderName string `json:"holder_name"`
	Status     string `json:"status"`
}

// TransactionNotification is the observer event describing a wallet
// operation outcome. Balance fields are nil on rejected attempts.
type TransactionNotification struct {
	CardUID     string  `json:"card_uid"`
	Operation   string  `json:"operation_type"`
	ProductName *string `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Amount      *int64  `json:"amount"`
	NewBalance  *int64  `json:"new_balance"`
	Status      string  `json:"status"` // success | rejected
	Message     string  `json:"message"`
}
