package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/mycurrency"
	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/myhttp"
	"github.com/dropshiphq/storefront/lib/mylog"
	"github.com/dropshiphq/storefront/lib/myqueue"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/services/backendapi"
)

type webService struct {
	service    *service
	uuider     myuuid.UUIDer
	formatter  *mycurrency.Formatter
	logger     mylog.Logger
	respWriter myhttp.ResponseWriter
}

func NewWebService(backend backendapi.BackendAPI, cache mystore.Store[backendapi.CartSnapshot], queuer myqueue.TaskQueuer, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("cartweb")
	return &webService{
		service:    NewService(backend, cache, queuer, uuider),
		uuider:     uuider,
		formatter:  mycurrency.New(),
		logger:     logger,
		respWriter: myhttp.NewWriter(logger),
	}
}

// cartResponse is the backend snapshot plus the localized display total for
// the storefront pages.
type cartResponse struct {
	backendapi.CartSnapshot
	DisplayTotal string `json:"display_total"`
}

func (ws *webService) withDisplay(snapshot backendapi.CartSnapshot, r *http.Request) cartResponse {
	return cartResponse{
		CartSnapshot: snapshot,
		DisplayTotal: ws.formatter.Format(snapshot.Total, r.Header.Get("Accept-Language")),
	}
}

// Service exposes the underlying cart operations to sibling services.
func (ws *webService) Service() *service {
	return ws.service
}

func (ws *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/cart", ws.getCartPage()).Methods("GET")
	router.HandleFunc("/api/cart", ws.addLinePage()).Methods("POST")
	router.HandleFunc("/api/cart", ws.updateLinePage()).Methods("PATCH")
	router.HandleFunc("/api/cart/{productID}", ws.removeLinePage()).Methods("DELETE")
	router.HandleFunc("/api/cart", ws.clearCartPage()).Methods("DELETE")

	// Task-queue callback
	router.HandleFunc(reconcileWebhookPath, ws.reconcilePage()).Methods("PUT")
}

type mutateLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (ws *webService) getCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		snapshot, err := ws.service.Get(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 1, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, ws.withDisplay(snapshot, r))
	}
}

func (ws *webService) addLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		req := mutateLineRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ws.respWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("error parsing request: %s", err))
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		snapshot, err := ws.service.Add(c, req.ProductID, req.Quantity)
		if err != nil {
			ws.respWriter.WriteError(c, w, 3, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, ws.withDisplay(snapshot, r))
	}
}

func (ws *webService) updateLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		req := mutateLineRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ws.respWriter.WriteError(c, w, 4, myerrors.NewInvalidInputErrorf("error parsing request: %s", err))
			return
		}

		snapshot, err := ws.service.UpdateQuantity(c, req.ProductID, req.Quantity)
		if err != nil {
			ws.respWriter.WriteError(c, w, 5, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, ws.withDisplay(snapshot, r))
	}
}

func (ws *webService) removeLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		productID, err := strconv.Atoi(mux.Vars(r)["productID"])
		if err != nil {
			ws.respWriter.WriteError(c, w, 6, myerrors.NewInvalidInputErrorf("invalid product id: %s", err))
			return
		}

		snapshot, err := ws.service.Remove(c, productID)
		if err != nil {
			ws.respWriter.WriteError(c, w, 7, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, ws.withDisplay(snapshot, r))
	}
}

func (ws *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := ws.sessionContext(w, r)

		snapshot, err := ws.service.Clear(c)
		if err != nil {
			ws.respWriter.WriteError(c, w, 8, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, ws.withDisplay(snapshot, r))
	}
}

func (ws *webService) reconcilePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		req := reconcileRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ws.respWriter.WriteError(c, w, 9, myerrors.NewInvalidInputErrorf("error parsing reconcile request: %s", err))
			return
		}
		if req.SessionUID == "" {
			ws.respWriter.WriteError(c, w, 10, myerrors.NewInvalidInputErrorf("missing session uid"))
			return
		}

		ws.logger.Log(c, req.SessionUID, mylog.SeverityInfo, "Reconciling cart of session %s", req.SessionUID)

		if err := ws.service.Reconcile(c, req.SessionUID); err != nil {
			ws.respWriter.WriteError(c, w, 11, err)
			return
		}

		ws.respWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
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
