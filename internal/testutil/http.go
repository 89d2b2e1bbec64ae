package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementhub/placementhub/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls chain: each adds to the route context already on the request.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// WithSessionUser injects a signed-in principal into the request context,
// bypassing the session middleware.
func WithSessionUser(r *http.Request, id, name, email string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: id, Name: name, Email: email})
}
