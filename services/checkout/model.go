package checkout

import (
	"time"

	"github.com/dropshiphq/storefront/services/backendapi"
)

// Step is the wizard position. Steps are strictly ordered, movement is one
// step at a time through Advance and Retreat.
type Step int

const (
	StepAccount Step = iota
	StepAddress
	StepShipping
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepAccount:
		return "ACCOUNT"
	case StepAddress:
		return "ADDRESS"
	case StepShipping:
		return "SHIPPING"
	case StepPayment:
		return "PAYMENT"
	case StepReview:
		return "REVIEW"
	}
	return "UNKNOWN"
}

type AuthMode string

const (
	AuthModeLogin AuthMode = "login"
	AuthModeGuest AuthMode = "guest"
)

const DefaultProvider = "stripe"

var supportedProviders = []string{"stripe", "paypal", "esewa", "khalti"}

func isSupportedProvider(provider string) bool {
	for _, p := range supportedProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// Session is the per-browser checkout state. It lives only while the wizard
// runs and is discarded on completion.
type Session struct {
	SessionUID            string
	Step                  Step
	Authenticated         bool
	AuthMode              AuthMode
	Email                 string
	DisplayName           string
	UseSavedShipping      bool
	Shipping              backendapi.AddressRef
	Billing               backendapi.AddressRef
	BillingSameAsShipping bool
	Provider              string
	CouponCode            string
	LastError             string
	SavedAddresses        []backendapi.Address `datastore:",noindex"`
	CreatedAt             time.Time
}

func newSession(sessionUID string, now time.Time) Session {
	return Session{
		SessionUID:            sessionUID,
		Step:                  StepAccount,
		AuthMode:              AuthModeLogin,
		BillingSameAsShipping: true,
		Provider:              DefaultProvider,
		CreatedAt:             now,
	}
}
