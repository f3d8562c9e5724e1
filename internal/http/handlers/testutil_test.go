package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withURLParams attaches chi route parameters so handlers can be invoked
// directly without mounting the full router.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
