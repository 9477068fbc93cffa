package card

// IssueCardInput is the request body for issuing a card.
type IssueCardInput struct {
	IBAN     string `json:"iban" validate:"required,iban"`
	CardType string `json:"cardType" validate:"required,notblank,max=50"`
	Pin      string `json:"pin" validate:"required,len=4,numeric"`
	// CardNumber is generated when omitted.
	CardNumber string `json:"cardNumber" validate:"omitempty,cardnumber"`
}

// UpdateCardInput changes the card type or pin. Omitted fields are left
// unchanged.
type UpdateCardInput struct {
	CardType *string `json:"cardType" validate:"omitempty,notblank,max=50"`
	Pin      *string `json:"pin" validate:"omitempty,len=4,numeric"`
}
