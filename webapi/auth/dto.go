package auth

import "github.com/amirasaad/backoffice/pkg/dto"

// LoginInput represents the request body for user authentication.
type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput carries the issued token and the authenticated user.
type LoginOutput struct {
	Token string        `json:"token"`
	User  *dto.UserRead `json:"user"`
}
