package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/myqueue"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/services/backendapi"
)

func setupWeb(t *testing.T) (context.Context, *backendapi.MockBackendAPI, *myqueue.MockTaskQueuer, mystore.Store[backendapi.CartSnapshot], *mux.Router) {
	c, ctrl, backend, queuer, cache := setup(t)

	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().Return("uid-abc").AnyTimes()

	sut := NewWebService(backend, cache, queuer, uuider)

	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, backend, queuer, cache, router
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: mycontext.SessionCookieName, Value: "session-123"})
	return r
}

func TestGetCartEndpoint(t *testing.T) {
	c, _, _, cache, router := setupWeb(t)

	// given: a warm cache
	err := cache.Put(c, "session-123", backendapi.CartSnapshot{
		Items: []backendapi.CartLine{mugLine},
		Total: "10.00",
	})
	assert.NoError(t, err)

	// when
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	req.Header.Set("Accept-Language", "en-US")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// then: the snapshot plus a localized display total
	assert.Equal(t, http.StatusOK, recorder.Code)

	resp := struct {
		Items        []backendapi.CartLine `json:"items"`
		Total        string                `json:"total"`
		DisplayTotal string                `json:"display_total"`
	}{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "10.00", resp.Total)
	assert.Equal(t, "Rs 1,335", resp.DisplayTotal)
}

func TestAddLineEndpoint(t *testing.T) {
	_, backend, queuer, _, router := setupWeb(t)

	// given: quantity defaults to one
	backend.EXPECT().AddCartLine(gomock.Any(), 7, 1).Return(backendapi.CartSnapshot{
		Items: []backendapi.CartLine{mugLine},
		Total: "10.00",
	}, nil)
	queuer.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

	// when
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"product_id":7}`)))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRemoveLineEndpoint(t *testing.T) {
	_, backend, queuer, _, router := setupWeb(t)

	// given
	backend.EXPECT().RemoveCartLine(gomock.Any(), 7).Return(backendapi.CartSnapshot{
		Items: []backendapi.CartLine{},
		Total: "0.00",
	}, nil)
	queuer.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

	// when
	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/cart/7", nil))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestReconcileEndpoint(t *testing.T) {
	c, backend, _, cache, router := setupWeb(t)

	// given
	authoritative := backendapi.CartSnapshot{
		Items: []backendapi.CartLine{capLine},
		Total: "5.50",
	}
	backend.EXPECT().GetCart(gomock.Any()).Return(authoritative, nil)

	// when: the task queue fires the reconciliation webhook
	req := httptest.NewRequest(http.MethodPut, reconcileWebhookPath, strings.NewReader(`{"session_uid":"session-123"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	cached, found, err := cache.Get(c, "session-123")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, authoritative, cached)
}
