// Package dto holds the read models returned by services and rendered by
// the web layer. They never carry secrets, reference other entities by
// public id or name, and use RFC 3339 timestamps.
package dto

// UserRead is the public view of a user.
type UserRead struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	IsDeleted bool   `json:"isDeleted"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ClientRead is the public view of a client profile.
type ClientRead struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	DNI       string `json:"dni"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	IsDeleted bool   `json:"isDeleted"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AccountRead is the public view of an account.
type AccountRead struct {
	ID          string  `json:"id"`
	IBAN        string  `json:"iban"`
	Balance     float64 `json:"balance"`
	AccountType string  `json:"accountType"`
	ClientID    string  `json:"clientId"`
	IsDeleted   bool    `json:"isDeleted"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BalanceRead is an account balance converted to another currency.
type BalanceRead struct {
	IBAN      string  `json:"iban"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	Converted float64 `json:"converted"`
	Target    string  `json:"target"`
	Rate      float64 `json:"rate"`
	RateAt    string  `json:"rateAt"`
}

// CardRead is the public view of a card. The pin is never exposed.
type CardRead struct {
	ID         string `json:"id"`
	CardNumber string `json:"cardNumber"`
	IBAN       string `json:"iban"`
	CardType   string `json:"cardType"`
	ExpiresAt  string `json:"expiresAt"`
	IsDeleted  bool   `json:"isDeleted"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// CatalogRead is the public view of a product, account type or card
// type. Interest is only set for account types.
type CatalogRead struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Interest    *float64 `json:"interest,omitempty"`
	IsDeleted   bool     `json:"isDeleted"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// MovementRead is the public view of a movement.
type MovementRead struct {
	ID              string  `json:"id"`
	MovementType    string  `json:"movementType"`
	IBAN            string  `json:"iban"`
	DestinationIBAN string  `json:"destinationIban,omitempty"`
	Amount          float64 `json:"amount"`
	Card            string  `json:"card,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// NotificationRead is the public view of a notification.
type NotificationRead struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"createdAt"`
}

// RatesRead lists exchange rates for a base currency.
type RatesRead struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt string             `json:"updatedAt"`
	Source    string             `json:"source"`
}
