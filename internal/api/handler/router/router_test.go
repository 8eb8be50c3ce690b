package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouter_AddRoutes(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	var instrumented []string
	rt := New(
		WithInstrumentation(func(route string) func(http.Handler) http.Handler {
			instrumented = append(instrumented, route)
			return tag("metrics")
		}),
		WithRoutes(Route{
			Path:   "/items/:id",
			Method: http.MethodGet,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "handler")
				w.Write([]byte(httprouter.ParamsFromContext(r.Context()).ByName("id")))
			}),
			Middlewares: []func(http.Handler) http.Handler{tag("first"), tag("second")},
		}),
	)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, "42", rec.Body.String())
	assert.Equal(t, []string{"metrics", "first", "second", "handler"}, order)
	assert.Equal(t, []string{"GET /items/:id"}, instrumented)
}

func TestRouter_NotFound(t *testing.T) {
	rt := New(WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nada", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
