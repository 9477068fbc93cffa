package client

import clientdomain "github.com/amirasaad/backoffice/pkg/domain/client"

// ClientInput is the request body for creating or replacing a client
// profile. Ids and audit fields are assigned by the server.
type ClientInput struct {
	DNI     string `json:"dni" validate:"required,dni"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Surname string `json:"surname" validate:"required,notblank,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

func (in *ClientInput) profile() clientdomain.Profile {
	return clientdomain.Profile{
		DNI:     in.DNI,
		Email:   in.Email,
		Name:    in.Name,
		Surname: in.Surname,
		Phone:   in.Phone,
		Address: in.Address,
	}
}
