package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/mypublisher"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/mytime"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/lib/myvault"
	"github.com/dropshiphq/storefront/services/backendapi"
)

type webFixture struct {
	c       context.Context
	backend *backendapi.MockBackendAPI
	storer  mystore.Store[Session]
	router  *mux.Router
}

func setupWeb(t *testing.T) webFixture {
	c := mycontext.WithSessionUID(context.TODO(), "session-123")

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	storer, storerCleanup, err := mystore.NewInMemoryStore[Session](c)
	assert.NoError(t, err)
	t.Cleanup(storerCleanup)

	vault, vaultCleanup, err := myvault.New(c)
	assert.NoError(t, err)
	t.Cleanup(vaultCleanup)

	backend := backendapi.NewMockBackendAPI(ctrl)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().Return("session-new").AnyTimes()

	sut := NewWebService(backend, storer, vault, &fakeCartCache{}, mypublisher.NewRecordingPublisher(), nower, uuider)

	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return webFixture{c: c, backend: backend, storer: storer, router: router}
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: mycontext.SessionCookieName, Value: "session-123"})
	return r
}

func TestCheckoutPageMintsSession(t *testing.T) {
	f := setupWeb(t)

	// when: a first-time browser opens the wizard
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then: a session cookie is handed out and the account step renders
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Set-Cookie"), mycontext.SessionCookieName+"=session-new")
	assert.Contains(t, recorder.Body.String(), "ACCOUNT")
}

func TestAccountStepRejectsBlankForm(t *testing.T) {
	f := setupWeb(t)

	// when: submitting the account form without credentials
	req := withSession(httptest.NewRequest(http.MethodPost, "/checkout/account", strings.NewReader("mode=login")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then: the page re-renders the account step with the reason
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ACCOUNT")
	assert.Contains(t, recorder.Body.String(), "email and password are required")
}

func TestSubmitRendersAutoSubmittingProviderForm(t *testing.T) {
	f := setupWeb(t)

	// given: a review-ready session and a backend answering with a payment form
	session := authenticatedSessionAt(StepReview)
	shipping := validAddress()
	session.Shipping = backendapi.AddressRef{SavedID: 3, Draft: &shipping}
	session.Provider = "esewa"
	err := f.storer.Put(f.c, "session-123", session)
	assert.NoError(t, err)

	f.backend.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(backendapi.OrderResponse{
		OrderID: 981,
		PaymentIntent: backendapi.PaymentIntent{
			Provider:    "esewa",
			PaymentForm: &backendapi.PaymentForm{URL: "https://pay.example/", Method: "POST", Fields: map[string]string{"token": "abc"}},
		},
	}, nil)

	// when
	req := withSession(httptest.NewRequest(http.MethodPost, "/checkout/submit", nil))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then: an auto-submitting form of hidden provider fields
	assert.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, `onload="document.forms[0].submit()"`)
	assert.Contains(t, body, `action="https://pay.example/"`)
	assert.Contains(t, body, `method="POST"`)
	assert.Contains(t, body, `type="hidden"`)
	assert.Contains(t, body, `name="token"`)
	assert.Contains(t, body, `value="abc"`)
}

func TestSubmitRedirectsToPaymentURL(t *testing.T) {
	f := setupWeb(t)

	// given
	session := authenticatedSessionAt(StepReview)
	shipping := validAddress()
	session.Shipping = backendapi.AddressRef{SavedID: 3, Draft: &shipping}
	err := f.storer.Put(f.c, "session-123", session)
	assert.NoError(t, err)

	f.backend.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(backendapi.OrderResponse{
		OrderID:       982,
		PaymentIntent: backendapi.PaymentIntent{Provider: "stripe", PaymentURL: "https://pay.stripe.example/session-xyz"},
	}, nil)

	// when
	req := withSession(httptest.NewRequest(http.MethodPost, "/checkout/submit", nil))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "https://pay.stripe.example/session-xyz", recorder.Header().Get("Location"))
}

func TestSubmitWithoutPaymentInstructionConfirmsInPlace(t *testing.T) {
	f := setupWeb(t)

	// given: a cash-like provider with no redirect instruction
	session := authenticatedSessionAt(StepReview)
	shipping := validAddress()
	session.Shipping = backendapi.AddressRef{SavedID: 3, Draft: &shipping}
	err := f.storer.Put(f.c, "session-123", session)
	assert.NoError(t, err)

	f.backend.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(backendapi.OrderResponse{
		OrderID:       983,
		PaymentIntent: backendapi.PaymentIntent{Provider: "stripe"},
	}, nil)

	// when
	req := withSession(httptest.NewRequest(http.MethodPost, "/checkout/submit", nil))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "#983")
}

func TestBackFromReview(t *testing.T) {
	f := setupWeb(t)

	// given
	err := f.storer.Put(f.c, "session-123", authenticatedSessionAt(StepReview))
	assert.NoError(t, err)

	// when
	req := withSession(httptest.NewRequest(http.MethodPost, "/checkout/back", nil))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "PAYMENT")
}
