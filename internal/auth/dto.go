package auth

import (
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
)

// LoginInput carries credentials. Login accepts a username or an email.
type LoginInput struct {
	Login    string
	Password string
}

// RefreshInput carries the expired access token plus the refresh token
// that was issued alongside it.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// TokenPair is the credential set handed to a client after login or
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// LoginResult bundles the authenticated user with their tokens.
type LoginResult struct {
	User   *models.User
	Tokens TokenPair
}
