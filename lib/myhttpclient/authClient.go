package myhttpclient

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myvault"
)

type authClient struct {
	*jsonHTTPClient
	vault        myvault.VaultReadWriter
	refresher    TokenRefresher
	refreshGroup singleflight.Group
}

func newAuthClient(vault myvault.VaultReadWriter, refresher TokenRefresher) *authClient {
	return &authClient{
		jsonHTTPClient: newJSONHTTPClient(),
		vault:          vault,
		refresher:      refresher,
	}
}

func (ac *authClient) Send(c context.Context, method string, url string, body []byte) (int, []byte, error) {
	sessionUID := mycontext.SessionUID(c)

	creds, found, err := ac.vault.Get(c, sessionUID)
	if err != nil {
		return 0, []byte{}, myerrors.NewInternalError(fmt.Errorf("error reading credentials: %s", err))
	}

	status, respBody, err := ac.send(c, method, url, body, creds.AccessToken)
	if err != nil {
		return status, respBody, err
	}

	if status != http.StatusUnauthorized || !found || creds.RefreshToken == "" {
		return status, respBody, nil
	}

	// Another request on this session may have refreshed the credential while
	// ours was in flight: retry with the newer token instead of refreshing again.
	latest, _, err := ac.vault.Get(c, sessionUID)
	if err == nil && latest.AccessToken != "" && latest.AccessToken != creds.AccessToken {
		return ac.send(c, method, url, body, latest.AccessToken)
	}

	// Single-shot refresh-and-retry. Concurrent 401s on the same session share
	// one in-flight refresh exchange.
	refreshed, err, _ := ac.refreshGroup.Do(sessionUID, func() (any, error) {
		newCreds, refreshErr := ac.refresher.Refresh(c, creds.RefreshToken)
		if refreshErr != nil {
			return nil, refreshErr
		}

		// A refresh exchange only returns tokens: keep the profile fields.
		newCreds.Email = creds.Email
		newCreds.DisplayName = creds.DisplayName

		// The refresh flow is one of the sanctioned vault writers.
		putErr := ac.vault.Put(c, sessionUID, newCreds)
		if putErr != nil {
			return nil, putErr
		}

		return newCreds, nil
	})
	if err != nil {
		// Refresh failed: propagate the original 401 response unchanged.
		return status, respBody, nil
	}

	// Re-issue the original request exactly once with the new credential. A
	// second 401 on the retried request is returned as-is.
	return ac.send(c, method, url, body, refreshed.(myvault.Credentials).AccessToken)
}
