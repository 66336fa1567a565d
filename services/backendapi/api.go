// Package backendapi is the typed client for the commerce backend REST API.
// The backend owns all durable commerce state (catalog, carts, orders,
// payments); the storefront gateway only relays and caches.
package backendapi

import (
	"context"
	"encoding/json"
)

// ProductRef identifies a product within a cart line.
type ProductRef struct {
	ID           int    `json:"id"`
	SKU          string `json:"sku,omitempty"`
	Title        string `json:"title"`
	PrimaryImage string `json:"primary_image,omitempty"`
}

type CartLine struct {
	Product   ProductRef `json:"product"`
	Quantity  int        `json:"quantity"`
	UnitPrice string     `json:"unit_price"`
}

// CartSnapshot is the backend's authoritative cart representation. Amounts
// are decimal strings in the backend's base currency.
type CartSnapshot struct {
	Items []CartLine `json:"items"`
	Total string     `json:"total"`
}

type Address struct {
	ID           int    `json:"id,omitempty"`
	Label        string `json:"label,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// AddressRef points at either a saved backend address or an inline draft
// collected during guest checkout. On the wire a saved ref is the bare id, a
// draft is the full address object.
type AddressRef struct {
	SavedID int
	Draft   *Address
}

func (r AddressRef) MarshalJSON() ([]byte, error) {
	if r.SavedID != 0 {
		return json.Marshal(r.SavedID)
	}
	return json.Marshal(r.Draft)
}

// IsSet tells whether the ref resolves to anything at all.
func (r AddressRef) IsSet() bool {
	return r.SavedID != 0 || r.Draft != nil
}

// Fields returns the address fields backing this ref for validation. A saved
// selection carries a copy of its fields in Draft.
func (r AddressRef) Fields() *Address {
	return r.Draft
}

type UserInfo struct {
	ID        int    `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type LoginResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    UserInfo `json:"user"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type RegisterResponse struct {
	User        UserInfo `json:"user"`
	VerifyToken string   `json:"verify_token,omitempty"`
}

type OrderRequest struct {
	ShippingAddress AddressRef `json:"shipping_address"`
	BillingAddress  AddressRef `json:"billing_address"`
	Provider        string     `json:"provider,omitempty"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	ReferralCode    string     `json:"referral_code,omitempty"`
}

type PaymentForm struct {
	URL    string            `json:"url"`
	Method string            `json:"method,omitempty"`
	Fields map[string]string `json:"fields"`
}

// PaymentIntent is the backend's instruction for completing payment. Exactly
// one of PaymentForm/PaymentURL is set for redirect providers; neither means
// the order completed in place.
type PaymentIntent struct {
	Provider    string       `json:"provider"`
	PaymentURL  string       `json:"payment_url,omitempty"`
	PaymentForm *PaymentForm `json:"payment_form,omitempty"`
}

type OrderResponse struct {
	OrderID       int           `json:"order_id"`
	PaymentIntent PaymentIntent `json:"payment_intent"`
}

//go:generate mockgen -source=api.go -package backendapi -destination api_mock.go BackendAPI
type BackendAPI interface {
	GetCart(c context.Context) (CartSnapshot, error)
	AddCartLine(c context.Context, productID int, quantity int) (CartSnapshot, error)
	UpdateCartLine(c context.Context, productID int, quantity int) (CartSnapshot, error)
	RemoveCartLine(c context.Context, productID int) (CartSnapshot, error)
	ClearCart(c context.Context) (CartSnapshot, error)
	ListAddresses(c context.Context) ([]Address, error)
	Login(c context.Context, email string, password string) (LoginResponse, error)
	Register(c context.Context, req RegisterRequest) (RegisterResponse, error)
	CreateOrder(c context.Context, req OrderRequest) (OrderResponse, error)
}
