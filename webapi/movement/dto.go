package movement

import "github.com/shopspring/decimal"

// MovementInput is the request body for recording a movement.
type MovementInput struct {
	MovementType string `json:"movementType" validate:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER CARD_PAYMENT"`
	IBAN         string `json:"iban" validate:"required,iban"`
	// DestinationIBAN is required for transfers and rejected otherwise.
	DestinationIBAN string          `json:"destinationIban" validate:"excluded_unless=MovementType TRANSFER,required_if=MovementType TRANSFER,omitempty,iban"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"number" validate:"gte=0.01"`
	// CardID is the public id of the paying card, required for card payments.
	CardID string `json:"card" validate:"required_if=MovementType CARD_PAYMENT"`
}
