package checkout

import (
	"fmt"
	"strings"

	"github.com/dropshiphq/storefront/services/backendapi"
)

// Advance moves the wizard one step forward. It clears any previous error,
// then runs the exit guard of the current step: on a violation the session
// stays put and carries the guard's message as its error.
func (s *Session) Advance() bool {
	s.LastError = ""

	if err := s.exitGuard(); err != nil {
		s.LastError = err.Error()
		return false
	}

	if s.Step < StepReview {
		s.Step++
	}
	return true
}

// Retreat moves one step back, unconditionally. Once authenticated the
// account step is behind the session for good, so ADDRESS is the floor.
func (s *Session) Retreat() {
	s.LastError = ""

	floor := StepAccount
	if s.Authenticated {
		floor = StepAddress
	}

	if s.Step > floor {
		s.Step--
	}
}

func (s *Session) exitGuard() error {
	switch s.Step {
	case StepAccount:
		if !s.Authenticated {
			return fmt.Errorf("sign in or continue as guest first")
		}
	case StepAddress:
		return s.ValidateAddresses()
	case StepShipping:
		// flat shipping, nothing to check
	case StepPayment:
		if !isSupportedProvider(s.Provider) {
			return fmt.Errorf("unsupported payment provider %q", s.Provider)
		}
	case StepReview:
		// leaving review is submission, handled by the service
	}
	return nil
}

// ValidateAddresses checks the shipping address and, when billing does not
// follow shipping, the billing address independently. Runs on leaving ADDRESS
// and again on submit.
func (s *Session) ValidateAddresses() error {
	if err := validateAddressRef("shipping", s.Shipping); err != nil {
		return err
	}
	if !s.BillingSameAsShipping {
		if err := validateAddressRef("billing", s.Billing); err != nil {
			return err
		}
	}
	return nil
}

// MarkAuthenticated records backend credentials on the session. A session
// sitting on the account step moves on: the step's purpose is fulfilled.
func (s *Session) MarkAuthenticated(email string, displayName string) {
	s.Authenticated = true
	s.Email = email
	s.DisplayName = displayName
	s.LastError = ""

	if s.Step == StepAccount {
		s.Step = StepAddress
	}
}

// AdoptSavedAddresses remembers the account's address book and picks the
// first entry for shipping when none was chosen yet.
func (s *Session) AdoptSavedAddresses(addresses []backendapi.Address) {
	s.SavedAddresses = addresses

	if len(addresses) > 0 && !s.Shipping.IsSet() {
		s.SelectSavedShipping(addresses[0].ID)
	}
}

// SelectSavedShipping points shipping at a saved address. The address fields
// ride along for validation and review display.
func (s *Session) SelectSavedShipping(addressID int) bool {
	for _, address := range s.SavedAddresses {
		if address.ID == addressID {
			saved := address
			s.Shipping = backendapi.AddressRef{SavedID: saved.ID, Draft: &saved}
			s.UseSavedShipping = true
			return true
		}
	}
	return false
}

// EffectiveBilling resolves the billing ref, honoring same-as-shipping.
func (s *Session) EffectiveBilling() backendapi.AddressRef {
	if s.BillingSameAsShipping {
		return s.Shipping
	}
	return s.Billing
}

func validateAddressRef(role string, ref backendapi.AddressRef) error {
	if !ref.IsSet() {
		return fmt.Errorf("no %s address selected", role)
	}

	fields := ref.Fields()
	if fields == nil {
		return fmt.Errorf("%s address is incomplete", role)
	}

	required := []struct {
		name  string
		value string
	}{
		{"address_line1", fields.AddressLine1},
		{"city", fields.City},
		{"state", fields.State},
		{"postal_code", fields.PostalCode},
		{"country", fields.Country},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s address: %s is required", role, field.name)
		}
	}
	return nil
}
