// Package myvault holds the per-browser-session credentials obtained from the
// commerce backend.
//
// Single-writer convention: only three flows may Put/Delete credentials:
// the refresh path in myhttpclient, the checkout account step (login and
// guest convergence) and logout. All other code treats the vault as read-only.
package myvault

import (
	"context"

	"github.com/dropshiphq/storefront/lib/mystore"
)

// Credentials is the bearer token pair issued by the backend for one
// storefront session.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Email        string
	DisplayName  string
}

type VaultReader interface {
	Get(c context.Context, sessionUID string) (Credentials, bool, error)
}

//go:generate mockgen -source=vault.go -package myvault -destination vault_mock.go VaultReadWriter
type VaultReadWriter interface {
	Get(c context.Context, sessionUID string) (Credentials, bool, error)
	Put(c context.Context, sessionUID string, value Credentials) error
	Delete(c context.Context, sessionUID string) error
}

func New(c context.Context) (VaultReadWriter, func(), error) {
	return mystore.New[Credentials](c)
}
