// Package cart keeps an optimistic per-session cache of the backend cart.
// Mutations apply locally first so pages render the expected state
// immediately, then settle against the backend response.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dropshiphq/storefront/lib/mycontext"
	"github.com/dropshiphq/storefront/lib/mycurrency"
	"github.com/dropshiphq/storefront/lib/myerrors"
	"github.com/dropshiphq/storefront/lib/mylog"
	"github.com/dropshiphq/storefront/lib/myqueue"
	"github.com/dropshiphq/storefront/lib/mystore"
	"github.com/dropshiphq/storefront/lib/myuuid"
	"github.com/dropshiphq/storefront/services/backendapi"
)

const reconcileWebhookPath = "/api/cart/reconcile"

type service struct {
	backend backendapi.BackendAPI
	cache   mystore.Store[backendapi.CartSnapshot]
	queuer  myqueue.TaskQueuer
	uuider  myuuid.UUIDer
	logger  mylog.Logger
}

func NewService(backend backendapi.BackendAPI, cache mystore.Store[backendapi.CartSnapshot], queuer myqueue.TaskQueuer, uuider myuuid.UUIDer) *service {
	return &service{
		backend: backend,
		cache:   cache,
		queuer:  queuer,
		uuider:  uuider,
		logger:  mylog.New("cart"),
	}
}

// Get returns the cached cart, hydrating the cache from the backend on the
// first read of a session.
func (s *service) Get(c context.Context) (backendapi.CartSnapshot, error) {
	sessionUID := mycontext.SessionUID(c)
	if sessionUID == "" {
		return emptySnapshot(), nil
	}

	cached, found, err := s.cache.Get(c, sessionUID)
	if err != nil {
		return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error reading cart cache: %s", err))
	}
	if found {
		return cached, nil
	}

	snapshot, err := s.backend.GetCart(c)
	if err != nil {
		return emptySnapshot(), err
	}

	if err := s.cache.Put(c, sessionUID, snapshot); err != nil {
		return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error hydrating cart cache: %s", err))
	}

	return snapshot, nil
}

// Add puts quantity units of a product in the cart. An existing line for the
// product absorbs the quantity: a product never has two lines.
func (s *service) Add(c context.Context, productID int, quantity int) (backendapi.CartSnapshot, error) {
	if productID <= 0 || quantity <= 0 {
		return emptySnapshot(), myerrors.NewInvalidInputErrorf("invalid product %d or quantity %d", productID, quantity)
	}

	return s.mutate(c,
		applyAdd(productID, quantity),
		func(c context.Context) (backendapi.CartSnapshot, error) {
			return s.backend.AddCartLine(c, productID, quantity)
		})
}

// UpdateQuantity sets the quantity of an existing line. Zero or less drops
// the line.
func (s *service) UpdateQuantity(c context.Context, productID int, quantity int) (backendapi.CartSnapshot, error) {
	if productID <= 0 {
		return emptySnapshot(), myerrors.NewInvalidInputErrorf("invalid product %d", productID)
	}

	if quantity <= 0 {
		return s.Remove(c, productID)
	}

	return s.mutate(c,
		applyQuantity(productID, quantity),
		func(c context.Context) (backendapi.CartSnapshot, error) {
			return s.backend.UpdateCartLine(c, productID, quantity)
		})
}

func (s *service) Remove(c context.Context, productID int) (backendapi.CartSnapshot, error) {
	if productID <= 0 {
		return emptySnapshot(), myerrors.NewInvalidInputErrorf("invalid product %d", productID)
	}

	return s.mutate(c,
		applyRemove(productID),
		func(c context.Context) (backendapi.CartSnapshot, error) {
			return s.backend.RemoveCartLine(c, productID)
		})
}

func (s *service) Clear(c context.Context) (backendapi.CartSnapshot, error) {
	return s.mutate(c,
		func(snapshot backendapi.CartSnapshot) (backendapi.CartSnapshot, bool) {
			return emptySnapshot(), true
		},
		func(c context.Context) (backendapi.CartSnapshot, error) {
			return s.backend.ClearCart(c)
		})
}

// Forget drops the session's cache entry without touching the backend.
// Called on logout: the next session starts from the backend's truth.
func (s *service) Forget(c context.Context) error {
	sessionUID := mycontext.SessionUID(c)
	if sessionUID == "" {
		return nil
	}
	return s.cache.Delete(c, sessionUID)
}

// Reconcile replaces the cache with the backend's authoritative cart. Runs as
// the task-queue callback that settles any drift a mutation left behind.
func (s *service) Reconcile(c context.Context, sessionUID string) error {
	c = mycontext.WithSessionUID(c, sessionUID)

	snapshot, err := s.backend.GetCart(c)
	if err != nil {
		return err
	}

	return s.cache.Put(c, sessionUID, snapshot)
}

type applyFunc func(snapshot backendapi.CartSnapshot) (backendapi.CartSnapshot, bool)
type dispatchFunc func(c context.Context) (backendapi.CartSnapshot, error)

// mutate runs the optimistic mutation protocol:
// capture the pre-mutation snapshot, apply the mutation locally and show it,
// dispatch to the backend, then settle the cache on the server snapshot
// (success) or roll back to the captured one (failure). Either way a
// reconciliation task re-fetches the authoritative cart afterwards.
func (s *service) mutate(c context.Context, apply applyFunc, dispatch dispatchFunc) (backendapi.CartSnapshot, error) {
	sessionUID := mycontext.SessionUID(c)
	if sessionUID == "" {
		return emptySnapshot(), myerrors.NewInvalidInputErrorf("missing session")
	}

	captured, found, err := s.cache.Get(c, sessionUID)
	if err != nil {
		return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error reading cart cache: %s", err))
	}
	if !found {
		captured = emptySnapshot()
	}

	if optimistic, changed := apply(captured); changed {
		optimistic.Total = computeTotal(optimistic.Items)
		if err := s.cache.Put(c, sessionUID, optimistic); err != nil {
			return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error writing optimistic cart: %s", err))
		}
	}

	server, dispatchErr := dispatch(c)
	if dispatchErr != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Cart mutation failed, rolling back: %s", dispatchErr)
		if err := s.cache.Put(c, sessionUID, captured); err != nil {
			return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error rolling back cart: %s", err))
		}
		s.scheduleReconcile(c, sessionUID)
		return captured, dispatchErr
	}

	if err := s.cache.Put(c, sessionUID, server); err != nil {
		return emptySnapshot(), myerrors.NewInternalError(fmt.Errorf("error settling cart: %s", err))
	}

	s.scheduleReconcile(c, sessionUID)

	return server, nil
}

// scheduleReconcile is best-effort: a failed enqueue never fails the
// mutation it trails.
func (s *service) scheduleReconcile(c context.Context, sessionUID string) {
	payload, err := json.Marshal(reconcileRequest{SessionUID: sessionUID})
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error marshalling reconcile task: %s", err)
		return
	}

	err = s.queuer.Enqueue(c, myqueue.Task{
		UID:            s.uuider.Create(),
		WebhookURLPath: reconcileWebhookPath,
		Payload:        payload,
	})
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error enqueuing cart reconciliation: %s", err)
	}
}

type reconcileRequest struct {
	SessionUID string `json:"session_uid"`
}

func applyAdd(productID int, quantity int) applyFunc {
	return func(snapshot backendapi.CartSnapshot) (backendapi.CartSnapshot, bool) {
		for i, line := range snapshot.Items {
			if line.Product.ID == productID {
				snapshot.Items = cloneLines(snapshot.Items)
				snapshot.Items[i].Quantity += quantity
				return snapshot, true
			}
		}
		// Unknown product: no local price to guess with, let the backend
		// response introduce the line.
		return snapshot, false
	}
}

func applyQuantity(productID int, quantity int) applyFunc {
	return func(snapshot backendapi.CartSnapshot) (backendapi.CartSnapshot, bool) {
		for i, line := range snapshot.Items {
			if line.Product.ID == productID {
				snapshot.Items = cloneLines(snapshot.Items)
				snapshot.Items[i].Quantity = quantity
				return snapshot, true
			}
		}
		return snapshot, false
	}
}

func applyRemove(productID int) applyFunc {
	return func(snapshot backendapi.CartSnapshot) (backendapi.CartSnapshot, bool) {
		kept := make([]backendapi.CartLine, 0, len(snapshot.Items))
		for _, line := range snapshot.Items {
			if line.Product.ID != productID {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(snapshot.Items) {
			return snapshot, false
		}
		snapshot.Items = kept
		return snapshot, true
	}
}

// computeTotal sums unit price times quantity over all lines. Lines with an
// unparseable price contribute zero, matching the display fail-soft rule.
func computeTotal(lines []backendapi.CartLine) string {
	total := decimal.Zero
	for _, line := range lines {
		price := mycurrency.ParseAmount(line.UnitPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.StringFixed(2)
}

func cloneLines(lines []backendapi.CartLine) []backendapi.CartLine {
	cloned := make([]backendapi.CartLine, len(lines))
	copy(cloned, lines)
	return cloned
}

func emptySnapshot() backendapi.CartSnapshot {
	return backendapi.CartSnapshot{Items: []backendapi.CartLine{}, Total: "0.00"}
}
