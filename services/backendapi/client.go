package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myhttpclient"
	"github.com/dropshiphq/storefront/lib/mylog"
)

type client struct {
	sender  myhttpclient.HTTPSender
	baseURL string
	logger  mylog.Logger
}

// New returns a BackendAPI over the given sender. Pass the authenticating
// sender: every operation except token refresh runs on behalf of a session.
func New(sender myhttpclient.HTTPSender, baseURL string) BackendAPI {
	return &client{
		sender:  sender,
		baseURL: baseURL,
		logger:  mylog.New("backendapi"),
	}
}

func (cl *client) GetCart(c context.Context) (CartSnapshot, error) {
	return cl.cartCall(c, http.MethodGet, "/cart/", nil)
}

func (cl *client) AddCartLine(c context.Context, productID int, quantity int) (CartSnapshot, error) {
	return cl.cartCall(c, http.MethodPost, "/cart/", cartLineRequest{ProductID: productID, Quantity: quantity})
}

func (cl *client) UpdateCartLine(c context.Context, productID int, quantity int) (CartSnapshot, error) {
	return cl.cartCall(c, http.MethodPatch, "/cart/", cartLineRequest{ProductID: productID, Quantity: quantity})
}

func (cl *client) RemoveCartLine(c context.Context, productID int) (CartSnapshot, error) {
	return cl.cartCall(c, http.MethodDelete, "/cart/", removeCartLineRequest{ProductID: productID})
}

func (cl *client) ClearCart(c context.Context) (CartSnapshot, error) {
	return cl.cartCall(c, http.MethodPost, "/cart/clear/", struct{}{})
}

func (cl *client) ListAddresses(c context.Context) ([]Address, error) {
	status, respBody, err := cl.call(c, http.MethodGet, "/addresses/", nil)
	if err != nil {
		return nil, err
	}
	if err := errorFromStatus(status, respBody); err != nil {
		return nil, err
	}

	// The backend paginates list resources.
	paginated := struct {
		Results []Address `json:"results"`
	}{}
	if err := json.Unmarshal(respBody, &paginated); err == nil && paginated.Results != nil {
		return paginated.Results, nil
	}

	addresses := []Address{}
	if err := json.Unmarshal(respBody, &addresses); err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error parsing addresses response: %s", err))
	}
	return addresses, nil
}

func (cl *client) Login(c context.Context, email string, password string) (LoginResponse, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	resp := LoginResponse{}
	err := cl.jsonCall(c, http.MethodPost, "/auth/login/", req, &resp)
	return resp, err
}

func (cl *client) Register(c context.Context, req RegisterRequest) (RegisterResponse, error) {
	resp := RegisterResponse{}
	err := cl.jsonCall(c, http.MethodPost, "/auth/register/", req, &resp)
	return resp, err
}

func (cl *client) CreateOrder(c context.Context, req OrderRequest) (OrderResponse, error) {
	resp := OrderResponse{}
	err := cl.jsonCall(c, http.MethodPost, "/checkout/", req, &resp)
	return resp, err
}

type cartLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type removeCartLineRequest struct {
	ProductID int `json:"product_id"`
}

func (cl *client) cartCall(c context.Context, method string, path string, reqBody any) (CartSnapshot, error) {
	snapshot := CartSnapshot{}
	err := cl.jsonCall(c, method, path, reqBody, &snapshot)
	if err != nil {
		return CartSnapshot{}, err
	}
	if snapshot.Items == nil {
		snapshot.Items = []CartLine{}
	}
	return snapshot, nil
}

func (cl *client) jsonCall(c context.Context, method string, path string, reqBody any, resp any) error {
	status, respBody, err := cl.call(c, method, path, reqBody)
	if err != nil {
		return err
	}
	if err := errorFromStatus(status, respBody); err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, resp); err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error parsing response of %s %s: %s", method, path, err))
	}
	return nil
}

func (cl *client) call(c context.Context, method string, path string, reqBody any) (int, []byte, error) {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return 0, nil, myerrors.NewInternalError(fmt.Errorf("error marshalling request for %s %s: %s", method, path, err))
		}
	}

	cl.logger.Log(c, "", mylog.SeverityDebug, "Calling backend: %s %s", method, path)

	status, respBody, err := cl.sender.Send(c, method, cl.baseURL+path, payload)
	if err != nil {
		return 0, nil, myerrors.NewUnavailableError(fmt.Errorf("error calling backend %s %s: %s", method, path, err))
	}
	return status, respBody, nil
}

// errorFromStatus maps backend statuses onto the error taxonomy. The detail
// field of the backend's error body becomes the message when present.
func errorFromStatus(status int, respBody []byte) error {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	detail := struct {
		Detail string `json:"detail"`
	}{}
	_ = json.Unmarshal(respBody, &detail)
	if detail.Detail == "" {
		detail.Detail = fmt.Sprintf("backend returned status %d", status)
	}
	cause := fmt.Errorf("%s", detail.Detail)

	switch {
	case status == http.StatusBadRequest:
		return myerrors.NewInvalidInputError(cause)
	case status == http.StatusUnauthorized:
		return myerrors.NewUnauthorizedError(cause)
	case status == http.StatusForbidden:
		return myerrors.NewAuthenticationError(cause)
	case status == http.StatusNotFound:
		return myerrors.NewNotFoundError(cause)
	case status == http.StatusConflict:
		return myerrors.NewConflictError(cause)
	case status >= http.StatusInternalServerError:
		return myerrors.NewUnavailableError(cause)
	default:
		return myerrors.NewInternalError(cause)
	}
}
