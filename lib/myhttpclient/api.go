package myhttpclient

import (
	"context"

	"github.com/dropshiphq/storefront/lib/myvault"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination sender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, body []byte) (int, []byte, error)
}

// TokenRefresher exchanges a refresh token for fresh credentials.
type TokenRefresher interface {
	Refresh(c context.Context, refreshToken string) (myvault.Credentials, error)
}

// New returns a plain JSON sender without credential handling.
func New() HTTPSender {
	return newJSONHTTPClient()
}

// NewAuthenticating returns a sender that attaches the bearer credential of
// the session carried in the context and transparently recovers from a single
// authorization expiry per request.
func NewAuthenticating(vault myvault.VaultReadWriter, refresher TokenRefresher) HTTPSender {
	return newAuthClient(vault, refresher)
}
