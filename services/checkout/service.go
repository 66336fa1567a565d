// Package checkout drives the checkout wizard: a small state machine over a
// per-session record, backed by the commerce backend for accounts, addresses
// and order creation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myevents"
	"github.com/dropshiphq/storefront/lib/mylog"
	"github.com/dropshiphq/storefront/lib/mypublisher"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/mytime"
	"github.com/dropshiphq/storefront/lib/myvault"
	"github.com/dropshiphq/storefront/services/backendapi"
	"github.com/dropshiphq/storefront/services/checkout/checkoutevents"
)

// CartCache lets checkout drop the session's cart cache after an order
// completes or the visitor signs out.
type CartCache interface {
	Forget(c context.Context) error
}

type service struct {
	backend   backendapi.BackendAPI
	storer    mystore.Store[Session]
	vault     myvault.VaultReadWriter
	cartCache CartCache
	publisher mypublisher.Publisher
	nower     mytime.Nower
	logger    mylog.Logger
}

func NewService(backend backendapi.BackendAPI, storer mystore.Store[Session], vault myvault.VaultReadWriter, cartCache CartCache, publisher mypublisher.Publisher, nower mytime.Nower) *service {
	return &service{
		backend:   backend,
		storer:    storer,
		vault:     vault,
		cartCache: cartCache,
		publisher: publisher,
		nower:     nower,
		logger:    mylog.New("checkout"),
	}
}

// Start returns the session for the current browser, creating one on first
// contact. Credentials that appeared outside the wizard move the session past
// the account step.
func (s *service) Start(c context.Context) (Session, error) {
	session, isNew, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	if isNew {
		s.publish(c, checkoutevents.CheckoutStarted{CheckoutUID: session.SessionUID})
	}

	if !session.Authenticated {
		creds, found, err := s.vault.Get(c, session.SessionUID)
		if err != nil {
			return Session{}, myerrors.NewInternalError(fmt.Errorf("error reading credentials: %s", err))
		}
		if found && creds.AccessToken != "" {
			session.MarkAuthenticated(creds.Email, creds.DisplayName)
			s.loadSavedAddresses(c, &session)
		}
	}

	if err := s.storer.Put(c, session.SessionUID, session); err != nil {
		return Session{}, myerrors.NewInternalError(fmt.Errorf("error storing checkout session: %s", err))
	}

	return session, nil
}

type accountRequest struct {
	Mode      AuthMode
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Account handles the ACCOUNT step: login with existing credentials or the
// guest flow, which registers the email first and falls back to a plain
// login when the address is already taken.
func (s *service) Account(c context.Context, req accountRequest) (Session, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	if req.Email == "" || req.Password == "" {
		return s.stallWithError(c, session, "email and password are required")
	}
	session.AuthMode = req.Mode

	if req.Mode == AuthModeGuest {
		_, registerErr := s.backend.Register(c, backendapi.RegisterRequest{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if registerErr != nil && myerrors.GetHTTPStatus(registerErr) != http.StatusConflict {
			return s.stallWithError(c, session, causeMessage(registerErr))
		}
		// Conflict means the account exists: converge on login below.
	}

	resp, err := s.backend.Login(c, req.Email, req.Password)
	if err != nil {
		return s.stallWithError(c, session, causeMessage(err))
	}

	displayName := fmt.Sprintf("%s %s", resp.User.FirstName, resp.User.LastName)
	err = s.vault.Put(c, session.SessionUID, myvault.Credentials{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		Email:        resp.User.Email,
		DisplayName:  displayName,
	})
	if err != nil {
		return Session{}, myerrors.NewInternalError(fmt.Errorf("error storing credentials: %s", err))
	}

	session.MarkAuthenticated(resp.User.Email, displayName)
	s.loadSavedAddresses(c, &session)

	return s.store(c, session)
}

type addressRequest struct {
	UseSaved    bool
	SavedID     int
	Shipping    backendapi.Address
	BillingSame bool
	Billing     backendapi.Address
}

// Address records the ADDRESS step choices and advances when they validate.
func (s *service) Address(c context.Context, req addressRequest) (Session, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	if req.UseSaved {
		if !session.SelectSavedShipping(req.SavedID) {
			return s.stallWithError(c, session, fmt.Sprintf("unknown saved address %d", req.SavedID))
		}
	} else {
		shipping := req.Shipping
		session.Shipping = backendapi.AddressRef{Draft: &shipping}
		session.UseSavedShipping = false
	}

	session.BillingSameAsShipping = req.BillingSame
	if !req.BillingSame {
		billing := req.Billing
		session.Billing = backendapi.AddressRef{Draft: &billing}
	}

	session.Advance()
	return s.store(c, session)
}

// Shipping acknowledges the display-only SHIPPING step.
func (s *service) Shipping(c context.Context) (Session, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	if session.Step == StepShipping {
		session.Advance()
	}
	return s.store(c, session)
}

// Payment records the provider and coupon choice and advances to review.
func (s *service) Payment(c context.Context, provider string, couponCode string) (Session, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	if provider != "" {
		session.Provider = provider
	}
	session.CouponCode = couponCode

	if session.Step == StepPayment {
		session.Advance()
	}
	return s.store(c, session)
}

func (s *service) Back(c context.Context) (Session, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, err
	}

	session.Retreat()
	return s.store(c, session)
}

// SubmitOutcome tells the web layer how to conclude a successful submission.
type SubmitOutcome struct {
	OrderID     int
	Form        *backendapi.PaymentForm
	RedirectURL string
}

// Submit places the order from REVIEW. Addresses are validated once more,
// then the backend's payment intent decides the conclusion: a provider form
// to auto-submit, a redirect URL, or an in-place confirmation. On failure the
// session stays on REVIEW carrying the backend's message.
func (s *service) Submit(c context.Context) (Session, *SubmitOutcome, error) {
	session, _, err := s.load(c)
	if err != nil {
		return Session{}, nil, err
	}

	if session.Step != StepReview {
		session, err := s.stallWithError(c, session, "nothing to submit yet")
		return session, nil, err
	}

	if validationErr := session.ValidateAddresses(); validationErr != nil {
		session, err := s.stallWithError(c, session, validationErr.Error())
		return session, nil, err
	}

	resp, err := s.backend.CreateOrder(c, backendapi.OrderRequest{
		ShippingAddress: session.Shipping,
		BillingAddress:  session.EffectiveBilling(),
		Provider:        session.Provider,
		CouponCode:      session.CouponCode,
	})
	if err != nil {
		s.logger.Log(c, session.SessionUID, mylog.SeverityWarn, "Order submission failed: %s", err)
		session, err := s.stallWithError(c, session, causeMessage(err))
		return session, nil, err
	}

	s.publish(c, checkoutevents.OrderPlaced{
		CheckoutUID: session.SessionUID,
		OrderID:     resp.OrderID,
		Provider:    resp.PaymentIntent.Provider,
	})

	// The wizard is done: the session record goes, the cart cache follows.
	if err := s.storer.Delete(c, session.SessionUID); err != nil {
		s.logger.Log(c, session.SessionUID, mylog.SeverityError, "Error discarding checkout session: %s", err)
	}
	if err := s.cartCache.Forget(c); err != nil {
		s.logger.Log(c, session.SessionUID, mylog.SeverityError, "Error forgetting cart cache: %s", err)
	}

	outcome := &SubmitOutcome{OrderID: resp.OrderID}
	switch {
	case resp.PaymentIntent.PaymentForm != nil:
		outcome.Form = resp.PaymentIntent.PaymentForm
	case resp.PaymentIntent.PaymentURL != "":
		outcome.RedirectURL = resp.PaymentIntent.PaymentURL
	}

	return session, outcome, nil
}

// Logout clears everything the gateway holds for the session: credentials,
// cart cache and checkout state.
func (s *service) Logout(c context.Context) error {
	sessionUID := mycontext.SessionUID(c)
	if sessionUID == "" {
		return nil
	}

	if err := s.vault.Delete(c, sessionUID); err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error clearing credentials: %s", err))
	}
	if err := s.cartCache.Forget(c); err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error clearing cart cache: %s", err))
	}
	if err := s.storer.Delete(c, sessionUID); err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error clearing checkout session: %s", err))
	}
	return nil
}

func (s *service) load(c context.Context) (Session, bool, error) {
	sessionUID := mycontext.SessionUID(c)
	if sessionUID == "" {
		return Session{}, false, myerrors.NewInvalidInputErrorf("missing session")
	}

	session, found, err := s.storer.Get(c, sessionUID)
	if err != nil {
		return Session{}, false, myerrors.NewInternalError(fmt.Errorf("error reading checkout session: %s", err))
	}
	if !found {
		return newSession(sessionUID, s.nower.Now()), true, nil
	}
	return session, false, nil
}

func (s *service) store(c context.Context, session Session) (Session, error) {
	if err := s.storer.Put(c, session.SessionUID, session); err != nil {
		return Session{}, myerrors.NewInternalError(fmt.Errorf("error storing checkout session: %s", err))
	}
	return session, nil
}

// stallWithError keeps the session where it is and records the message for
// the page to show.
func (s *service) stallWithError(c context.Context, session Session, message string) (Session, error) {
	session.LastError = message
	return s.store(c, session)
}

// loadSavedAddresses is best-effort: a failing address book never blocks
// authentication.
func (s *service) loadSavedAddresses(c context.Context, session *Session) {
	addresses, err := s.backend.ListAddresses(c)
	if err != nil {
		s.logger.Log(c, session.SessionUID, mylog.SeverityWarn, "Error listing addresses: %s", err)
		return
	}
	session.AdoptSavedAddresses(addresses)
}

func (s *service) publish(c context.Context, event myevents.Event) {
	if err := s.publisher.Publish(c, checkoutevents.TopicName, event); err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error publishing %s: %s", event.GetEventTypeName(), err)
	}
}

// causeMessage strips the transport wrapping so pages show the backend's own
// words where available.
func causeMessage(err error) string {
	cause := errors.Unwrap(err)
	if cause != nil {
		return cause.Error()
	}
	return err.Error()
}
