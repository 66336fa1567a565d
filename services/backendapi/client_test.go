package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myhttpclient"
)

func TestAddressRefMarshalling(t *testing.T) {
	t.Run("Saved address marshals as bare id", func(t *testing.T) {
		got, err := json.Marshal(AddressRef{SavedID: 42, Draft: &Address{City: "Kathmandu"}})
		assert.NoError(t, err)
		assert.Equal(t, "42", string(got))
	})

	t.Run("Draft address marshals inline", func(t *testing.T) {
		got, err := json.Marshal(AddressRef{Draft: &Address{
			AddressLine1: "Thamel Marg 12",
			City:         "Kathmandu",
			State:        "Bagmati",
			PostalCode:   "44600",
			Country:      "NP",
		}})
		assert.NoError(t, err)
		assert.JSONEq(t, `{"address_line1":"Thamel Marg 12","city":"Kathmandu","state":"Bagmati","postal_code":"44600","country":"NP"}`, string(got))
	})

	t.Run("Unset ref marshals as null", func(t *testing.T) {
		got, err := json.Marshal(AddressRef{})
		assert.NoError(t, err)
		assert.Equal(t, "null", string(got))
		assert.False(t, AddressRef{}.IsSet())
	})
}

func TestGetCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart/", r.URL.Path)
		fmt.Fprint(w, `{"items":[{"product":{"id":7,"title":"Travel mug"},"quantity":2,"unit_price":"10.00"}],"total":"20.00"}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	cart, err := sut.GetCart(context.TODO())

	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Product.ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "10.00", cart.Items[0].UnitPrice)
	assert.Equal(t, "20.00", cart.Total)
}

func TestAddCartLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/", r.URL.Path)
		reqBody, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"product_id":7,"quantity":1}`, string(reqBody))
		fmt.Fprint(w, `{"items":[{"product":{"id":7,"title":"Travel mug"},"quantity":1,"unit_price":"10.00"}],"total":"10.00"}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	cart, err := sut.AddCartLine(context.TODO(), 7, 1)

	assert.NoError(t, err)
	assert.Equal(t, "10.00", cart.Total)
}

func TestRemoveCartLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		reqBody, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"product_id":7}`, string(reqBody))
		fmt.Fprint(w, `{"items":[],"total":"0.00"}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	cart, err := sut.RemoveCartLine(context.TODO(), 7)

	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
}

func TestListAddresses(t *testing.T) {
	t.Run("Paginated response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/addresses/", r.URL.Path)
			fmt.Fprint(w, `{"count":1,"next":null,"previous":null,"results":[{"id":3,"label":"Home","address_line1":"Thamel Marg 12","city":"Kathmandu","state":"Bagmati","postal_code":"44600","country":"NP"}]}`)
		}))
		defer server.Close()

		sut := New(myhttpclient.New(), server.URL)

		addresses, err := sut.ListAddresses(context.TODO())

		assert.NoError(t, err)
		assert.Len(t, addresses, 1)
		assert.Equal(t, 3, addresses[0].ID)
		assert.Equal(t, "Kathmandu", addresses[0].City)
	})

	t.Run("Bare list response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"id":4,"address_line1":"Lakeside Rd 8","city":"Pokhara","state":"Gandaki","postal_code":"33700","country":"NP"}]`)
		}))
		defer server.Close()

		sut := New(myhttpclient.New(), server.URL)

		addresses, err := sut.ListAddresses(context.TODO())

		assert.NoError(t, err)
		assert.Len(t, addresses, 1)
		assert.Equal(t, "Pokhara", addresses[0].City)
	})
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login/", r.URL.Path)
		reqBody, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"jo@example.org","password":"secret"}`, string(reqBody))
		fmt.Fprint(w, `{"access":"access-abc","refresh":"refresh-abc","user":{"id":12,"email":"jo@example.org","first_name":"Jo"}}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	resp, err := sut.Login(context.TODO(), "jo@example.org", "secret")

	assert.NoError(t, err)
	assert.Equal(t, "access-abc", resp.Access)
	assert.Equal(t, "refresh-abc", resp.Refresh)
	assert.Equal(t, "Jo", resp.User.FirstName)
}

func TestRegisterConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register/", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"detail":"email already exists"}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	_, err := sut.Register(context.TODO(), RegisterRequest{Email: "jo@example.org", Password: "secret"})

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
	assert.Contains(t, err.Error(), "email already exists")
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/", r.URL.Path)
		reqBody, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"shipping_address": 3,
			"billing_address": {"address_line1":"Lakeside Rd 8","city":"Pokhara","state":"Gandaki","postal_code":"33700","country":"NP"},
			"provider": "esewa",
			"coupon_code": "WELCOME10"
		}`, string(reqBody))
		fmt.Fprint(w, `{"order_id":981,"payment_intent":{"provider":"esewa","payment_form":{"url":"https://pay.example/","method":"POST","fields":{"token":"abc"}}}}`)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	resp, err := sut.CreateOrder(context.TODO(), OrderRequest{
		ShippingAddress: AddressRef{SavedID: 3, Draft: &Address{City: "Kathmandu"}},
		BillingAddress: AddressRef{Draft: &Address{
			AddressLine1: "Lakeside Rd 8",
			City:         "Pokhara",
			State:        "Gandaki",
			PostalCode:   "33700",
			Country:      "NP",
		}},
		Provider:   "esewa",
		CouponCode: "WELCOME10",
	})

	assert.NoError(t, err)
	assert.Equal(t, 981, resp.OrderID)
	assert.Equal(t, "esewa", resp.PaymentIntent.Provider)
	if assert.NotNil(t, resp.PaymentIntent.PaymentForm) {
		assert.Equal(t, "https://pay.example/", resp.PaymentIntent.PaymentForm.URL)
		assert.Equal(t, "POST", resp.PaymentIntent.PaymentForm.Method)
		assert.Equal(t, map[string]string{"token": "abc"}, resp.PaymentIntent.PaymentForm.Fields)
	}
}

func TestBackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sut := New(myhttpclient.New(), server.URL)

	_, err := sut.GetCart(context.TODO())

	assert.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, myerrors.GetHTTPStatus(err))
}

func TestTokenRefresher(t *testing.T) {
	t.Run("Success rotates tokens", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/token/refresh/", r.URL.Path)
			reqBody, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"refresh":"refresh-abc"}`, string(reqBody))
			fmt.Fprint(w, `{"access":"access-def","refresh":"refresh-def"}`)
		}))
		defer server.Close()

		sut := NewTokenRefresher(myhttpclient.New(), server.URL)

		creds, err := sut.Refresh(context.TODO(), "refresh-abc")

		assert.NoError(t, err)
		assert.Equal(t, "access-def", creds.AccessToken)
		assert.Equal(t, "refresh-def", creds.RefreshToken)
	})

	t.Run("Non-rotating backend keeps old refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access":"access-def"}`)
		}))
		defer server.Close()

		sut := NewTokenRefresher(myhttpclient.New(), server.URL)

		creds, err := sut.Refresh(context.TODO(), "refresh-abc")

		assert.NoError(t, err)
		assert.Equal(t, "access-def", creds.AccessToken)
		assert.Equal(t, "refresh-abc", creds.RefreshToken)
	})

	t.Run("Rejection is unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		sut := NewTokenRefresher(myhttpclient.New(), server.URL)

		_, err := sut.Refresh(context.TODO(), "refresh-abc")

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, myerrors.GetHTTPStatus(err))
	})
}
