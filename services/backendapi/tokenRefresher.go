package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myhttpclient"
	"github.com/dropshiphq/storefront/lib/myvault"
)

type tokenRefresher struct {
	sender  myhttpclient.HTTPSender
	baseURL string
}

// NewTokenRefresher exchanges refresh tokens at the backend. It must run on
// the raw sender: attaching an expired bearer to the refresh call itself
// would loop.
func NewTokenRefresher(sender myhttpclient.HTTPSender, baseURL string) myhttpclient.TokenRefresher {
	return &tokenRefresher{
		sender:  sender,
		baseURL: baseURL,
	}
}

func (tr *tokenRefresher) Refresh(c context.Context, refreshToken string) (myvault.Credentials, error) {
	reqBody, err := json.Marshal(struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken})
	if err != nil {
		return myvault.Credentials{}, myerrors.NewInternalError(fmt.Errorf("error marshalling refresh request: %s", err))
	}

	status, respBody, err := tr.sender.Send(c, http.MethodPost, tr.baseURL+"/token/refresh/", reqBody)
	if err != nil {
		return myvault.Credentials{}, myerrors.NewUnavailableError(fmt.Errorf("error calling token refresh: %s", err))
	}
	if status != http.StatusOK {
		return myvault.Credentials{}, myerrors.NewUnauthorizedError(fmt.Errorf("token refresh rejected with status %d", status))
	}

	resp := struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}{}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return myvault.Credentials{}, myerrors.NewInternalError(fmt.Errorf("error parsing token refresh response: %s", err))
	}
	if resp.Access == "" {
		return myvault.Credentials{}, myerrors.NewUnauthorizedError(fmt.Errorf("token refresh returned no access token"))
	}

	// Backends that do not rotate refresh tokens omit the refresh field.
	if resp.Refresh == "" {
		resp.Refresh = refreshToken
	}

	return myvault.Credentials{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
	}, nil
}
