package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

type ctxSessionUID struct{}

// SessionCookieName identifies the browser session that owns the cart cache,
// the checkout session and the credentials in the vault.
const SessionCookieName = "storefront_session"

func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	ctx := context.WithValue(context.Background(), CtxTraceContext{}, trace)

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		ctx = WithSessionUID(ctx, cookie.Value)
	}

	return ctx
}

func WithSessionUID(c context.Context, uid string) context.Context {
	return context.WithValue(c, ctxSessionUID{}, uid)
}

// SessionUID returns the browser-session uid carried in the context, or ""
// for anonymous requests.
func SessionUID(c context.Context) string {
	uid, _ := c.Value(ctxSessionUID{}).(string)
	return uid
}

// SetSessionCookie hands a browser its session uid.
func SetSessionCookie(w http.ResponseWriter, uid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    uid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
