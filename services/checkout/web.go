package checkout

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myhttp"
	"github.com/dropshiphq/storefront/lib/mylog"
	"github.com/dropshiphq/storefront/lib/mypublisher"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/mytime"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/lib/myvault"
	"github.com/dropshiphq/storefront/services/backendapi"
)

//go:embed templates
var templateFolder embed.FS

var (
	checkoutPageTemplate     *template.Template
	redirectPageTemplate     *template.Template
	confirmationPageTemplate *template.Template
)

func init() {
	checkoutPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout.html"))
	redirectPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/payment_redirect.html"))
	confirmationPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/confirmation.html"))
}

type webService struct {
	service     *service
	uuider      myuuid.UUIDer
	formDecoder *form.Decoder
	logger      mylog.Logger
	respWriter  myhttp.ResponseWriter
}

func NewWebService(backend backendapi.BackendAPI, storer mystore.Store[Session], vault myvault.VaultReadWriter, cartCache CartCache, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("checkoutweb")
	return &webService{
		service:     NewService(backend, storer, vault, cartCache, publisher, nower),
		uuider:      uuider,
		formDecoder: form.NewDecoder(),
		logger:      logger,
		respWriter:  myhttp.NewWriter(logger),
	}
}

func (ws *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/checkout", ws.checkoutPage()).Methods("GET")
	router.HandleFunc("/checkout/account", ws.accountPage()).Methods("POST")
	router.HandleFunc("/checkout/address", ws.addressPage()).Methods("POST")
	router.HandleFunc("/checkout/shipping", ws.shippingPage()).Methods("POST")
	router.HandleFunc("/checkout/payment", ws.paymentPage()).Methods("POST")
	router.HandleFunc("/checkout/submit", ws.submitPage()).Methods("POST")
	router.HandleFunc("/checkout/back", ws.backPage()).Methods("POST")
	router.HandleFunc("/logout", ws.logoutPage()).Methods("POST")
}

type checkoutPage struct {
	Session      Session
	StepName     string
	AuthModeName string
	Providers    []string
}

func (ws *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		session, err := ws.service.Start(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 1, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

type accountForm struct {
	Mode      string `form:"mode"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

func (ws *webService) accountPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		f := accountForm{}
		if !ws.decodeForm(c, w, r, &f) {
			return
		}

		mode := AuthModeLogin
		if f.Mode == string(AuthModeGuest) {
			mode = AuthModeGuest
		}

		session, err := ws.service.Account(c, accountRequest{
			Mode:      mode,
			Email:     f.Email,
			Password:  f.Password,
			FirstName: f.FirstName,
			LastName:  f.LastName,
		})
		if err != nil {
			ws.respWriter.WriteError(c, w, 2, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

type addressForm struct {
	UseSaved     bool   `form:"use_saved"`
	SavedID      int    `form:"saved_id"`
	AddressLine1 string `form:"address_line1"`
	AddressLine2 string `form:"address_line2"`
	City         string `form:"city"`
	State        string `form:"state"`
	PostalCode   string `form:"postal_code"`
	Country      string `form:"country"`

	BillingSameAsShipping bool   `form:"billing_same_as_shipping"`
	BillingAddressLine1   string `form:"billing_address_line1"`
	BillingAddressLine2   string `form:"billing_address_line2"`
	BillingCity           string `form:"billing_city"`
	BillingState          string `form:"billing_state"`
	BillingPostalCode     string `form:"billing_postal_code"`
	BillingCountry        string `form:"billing_country"`
}

func (ws *webService) addressPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		f := addressForm{}
		if !ws.decodeForm(c, w, r, &f) {
			return
		}

		session, err := ws.service.Address(c, addressRequest{
			UseSaved: f.UseSaved,
			SavedID:  f.SavedID,
			Shipping: backendapi.Address{
				AddressLine1: f.AddressLine1,
				AddressLine2: f.AddressLine2,
				City:         f.City,
				State:        f.State,
				PostalCode:   f.PostalCode,
				Country:      f.Country,
			},
			BillingSame: f.BillingSameAsShipping,
			Billing: backendapi.Address{
				AddressLine1: f.BillingAddressLine1,
				AddressLine2: f.BillingAddressLine2,
				City:         f.BillingCity,
				State:        f.BillingState,
				PostalCode:   f.BillingPostalCode,
				Country:      f.BillingCountry,
			},
		})
		if err != nil {
			ws.respWriter.WriteError(c, w, 3, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

func (ws *webService) shippingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		session, err := ws.service.Shipping(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 4, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

type paymentForm struct {
	Provider   string `form:"provider"`
	CouponCode string `form:"coupon_code"`
}

func (ws *webService) paymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		f := paymentForm{}
		if !ws.decodeForm(c, w, r, &f) {
			return
		}

		session, err := ws.service.Payment(c, f.Provider, f.CouponCode)
		if err != nil {
			ws.respWriter.WriteError(c, w, 5, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

type redirectPage struct {
	Provider string
	URL      string
	Method   string
	Fields   map[string]string
}

func (ws *webService) submitPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		session, outcome, err := ws.service.Submit(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 6, err)
			return
		}

		if outcome == nil {
			// submission blocked, the session carries the reason
			ws.renderCheckout(c, w, session)
			return
		}

		switch {
		case outcome.Form != nil:
			method := outcome.Form.Method
			if method == "" {
				method = http.MethodPost
			}
			ws.renderPage(c, w, redirectPageTemplate, redirectPage{
				Provider: session.Provider,
				URL:      outcome.Form.URL,
				Method:   method,
				Fields:   outcome.Form.Fields,
			})
		case outcome.RedirectURL != "":
			http.Redirect(w, r, outcome.RedirectURL, http.StatusSeeOther)
		default:
			ws.renderPage(c, w, confirmationPageTemplate, struct{ OrderID int }{OrderID: outcome.OrderID})
		}
	}
}

func (ws *webService) backPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		session, err := ws.service.Back(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 7, err)
			return
		}

		ws.renderCheckout(c, w, session)
	}
}

func (ws *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		if err := ws.service.Logout(c); err != nil {
			ws.respWriter.WriteError(c, w, 8, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (ws *webService) renderCheckout(c context.Context, w http.ResponseWriter, session Session) {
	ws.renderPage(c, w, checkoutPageTemplate, checkoutPage{
		Session:      session,
		StepName:     session.Step.String(),
		AuthModeName: string(session.AuthMode),
		Providers:    supportedProviders,
	})
}

func (ws *webService) renderPage(c context.Context, w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		ws.logger.Log(c, "", mylog.SeverityError, "Error rendering %s: %s", t.Name(), err)
	}
}

func (ws *webService) decodeForm(c context.Context, w http.ResponseWriter, r *http.Request, target any) bool {
	if err := r.ParseForm(); err != nil {
		ws.respWriter.WriteError(c, w, 10, myerrors.NewInvalidInputErrorf("error parsing form: %s", err))
		return false
	}
	if err := ws.formDecoder.Decode(target, r.PostForm); err != nil {
		ws.respWriter.WriteError(c, w, 11, myerrors.NewInvalidInputErrorf("error decoding form: %s", err))
		return false
	}
	return true
}

// sessionContext mints a session uid for first-time browsers.
func (ws *webService) sessionContext(w http.ResponseWriter, r *http.Request) context.Context {
	c := mycontext.ContextFromHTTPRequest(r)
	if mycontext.SessionUID(c) == "" {
		uid := ws.uuider.Create()
		mycontext.SetSessionCookie(w, uid)
		c = mycontext.WithSessionUID(c, uid)
	}
	return c
}
