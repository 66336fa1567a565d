package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropshiphq/storefront/lib/mytime"
	"github.com/dropshiphq/storefront/services/backendapi"
)

func validAddress() backendapi.Address {
	return backendapi.Address{
		AddressLine1: "Thamel Marg 12",
		City:         "Kathmandu",
		State:        "Bagmati",
		PostalCode:   "44600",
		Country:      "NP",
	}
}

func authenticatedSessionAt(step Step) Session {
	session := newSession("session-123", mytime.ExampleTime)
	session.Authenticated = true
	session.Step = step
	return session
}

func TestAdvanceBlockedWithoutAuthentication(t *testing.T) {
	session := newSession("session-123", mytime.ExampleTime)

	ok := session.Advance()

	assert.False(t, ok)
	assert.Equal(t, StepAccount, session.Step)
	assert.NotEmpty(t, session.LastError)
}

func TestAdvanceClearsPreviousError(t *testing.T) {
	session := authenticatedSessionAt(StepShipping)
	session.LastError = "something went wrong earlier"

	ok := session.Advance()

	assert.True(t, ok)
	assert.Equal(t, StepPayment, session.Step)
	assert.Empty(t, session.LastError)
}

func TestAddressGuard(t *testing.T) {
	testCases := []struct {
		name    string
		mangle  func(a *backendapi.Address)
		blocked bool
	}{
		{name: "complete address passes", mangle: func(a *backendapi.Address) {}, blocked: false},
		{name: "missing line1", mangle: func(a *backendapi.Address) { a.AddressLine1 = "" }, blocked: true},
		{name: "blank city", mangle: func(a *backendapi.Address) { a.City = "   " }, blocked: true},
		{name: "missing state", mangle: func(a *backendapi.Address) { a.State = "" }, blocked: true},
		{name: "missing postal code", mangle: func(a *backendapi.Address) { a.PostalCode = "" }, blocked: true},
		{name: "missing country", mangle: func(a *backendapi.Address) { a.Country = "" }, blocked: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given: an authenticated session on the address step
			session := authenticatedSessionAt(StepAddress)
			address := validAddress()
			tc.mangle(&address)
			session.Shipping = backendapi.AddressRef{Draft: &address}

			// when
			ok := session.Advance()

			// then
			if tc.blocked {
				assert.False(t, ok)
				assert.Equal(t, StepAddress, session.Step)
				assert.NotEmpty(t, session.LastError)
			} else {
				assert.True(t, ok)
				assert.Equal(t, StepShipping, session.Step)
			}
		})
	}
}

func TestAddressGuardWithoutSelection(t *testing.T) {
	session := authenticatedSessionAt(StepAddress)

	ok := session.Advance()

	assert.False(t, ok)
	assert.Equal(t, StepAddress, session.Step)
	assert.Contains(t, session.LastError, "shipping")
}

func TestBillingValidatedIndependently(t *testing.T) {
	t.Run("Same as shipping only checks shipping", func(t *testing.T) {
		session := authenticatedSessionAt(StepAddress)
		shipping := validAddress()
		session.Shipping = backendapi.AddressRef{Draft: &shipping}
		session.BillingSameAsShipping = true

		assert.True(t, session.Advance())
		assert.Equal(t, StepShipping, session.Step)
	})

	t.Run("Separate billing must be complete", func(t *testing.T) {
		session := authenticatedSessionAt(StepAddress)
		shipping := validAddress()
		session.Shipping = backendapi.AddressRef{Draft: &shipping}
		session.BillingSameAsShipping = false
		session.Billing = backendapi.AddressRef{Draft: &backendapi.Address{City: "Pokhara"}}

		assert.False(t, session.Advance())
		assert.Equal(t, StepAddress, session.Step)
		assert.Contains(t, session.LastError, "billing")
	})
}

func TestUnsupportedProviderBlocksPayment(t *testing.T) {
	session := authenticatedSessionAt(StepPayment)
	session.Provider = "cheques"

	ok := session.Advance()

	assert.False(t, ok)
	assert.Equal(t, StepPayment, session.Step)
	assert.Contains(t, session.LastError, "cheques")
}

func TestRetreat(t *testing.T) {
	t.Run("Unauthenticated can go back to account", func(t *testing.T) {
		session := newSession("session-123", mytime.ExampleTime)
		session.Step = StepAddress

		session.Retreat()

		assert.Equal(t, StepAccount, session.Step)
	})

	t.Run("Authenticated never returns below address", func(t *testing.T) {
		session := authenticatedSessionAt(StepAddress)

		session.Retreat()
		session.Retreat()

		assert.Equal(t, StepAddress, session.Step)
	})

	t.Run("Retreat ignores guards", func(t *testing.T) {
		session := authenticatedSessionAt(StepReview)

		session.Retreat()

		assert.Equal(t, StepPayment, session.Step)
		assert.Empty(t, session.LastError)
	})
}

func TestMarkAuthenticatedSkipsAccountStep(t *testing.T) {
	session := newSession("session-123", mytime.ExampleTime)

	session.MarkAuthenticated("jo@example.org", "Jo Doe")

	assert.True(t, session.Authenticated)
	assert.Equal(t, StepAddress, session.Step)
	assert.Equal(t, "jo@example.org", session.Email)
}

func TestAdoptSavedAddressesAutoSelectsFirst(t *testing.T) {
	session := authenticatedSessionAt(StepAddress)
	home := validAddress()
	home.ID = 3
	office := validAddress()
	office.ID = 4

	session.AdoptSavedAddresses([]backendapi.Address{home, office})

	assert.True(t, session.UseSavedShipping)
	assert.Equal(t, 3, session.Shipping.SavedID)
	if assert.NotNil(t, session.Shipping.Fields()) {
		assert.Equal(t, "Kathmandu", session.Shipping.Fields().City)
	}
}

func TestAdoptSavedAddressesKeepsExistingChoice(t *testing.T) {
	session := authenticatedSessionAt(StepAddress)
	chosen := validAddress()
	session.Shipping = backendapi.AddressRef{Draft: &chosen}

	saved := validAddress()
	saved.ID = 3
	session.AdoptSavedAddresses([]backendapi.Address{saved})

	assert.Equal(t, 0, session.Shipping.SavedID)
}

func TestFullWalkThrough(t *testing.T) {
	// given: a fresh session
	session := newSession("session-123", mytime.ExampleTime)
	assert.Equal(t, StepAccount, session.Step)

	// when/then: each step's guard is satisfied in turn
	session.MarkAuthenticated("jo@example.org", "Jo Doe")
	assert.Equal(t, StepAddress, session.Step)

	shipping := validAddress()
	session.Shipping = backendapi.AddressRef{Draft: &shipping}
	assert.True(t, session.Advance())
	assert.Equal(t, StepShipping, session.Step)

	assert.True(t, session.Advance())
	assert.Equal(t, StepPayment, session.Step)

	assert.True(t, session.Advance())
	assert.Equal(t, StepReview, session.Step)

	// review is the last step, advance stays put
	assert.True(t, session.Advance())
	assert.Equal(t, StepReview, session.Step)
}
