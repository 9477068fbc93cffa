package account

// OpenAccountInput is the request body for opening an account. The
// balance always starts at zero.
type OpenAccountInput struct {
	AccountType string `json:"accountType" validate:"required,notblank,max=50"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	// IBAN is generated when omitted.
	IBAN string `json:"iban" validate:"omitempty,iban"`
	// ClientID opens the account for another client (admin).
	ClientID string `json:"clientId" validate:"omitempty,max=26"`
}

// UpdateAccountInput changes the account type or password. Omitted
// fields are left unchanged.
type UpdateAccountInput struct {
	AccountType *string `json:"accountType" validate:"omitempty,notblank,max=50"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=72"`
}
