package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := CORSMiddleware(DefaultCORSConfig([]string{"http://localhost:3000"}))

	t.Run("allowed origin is echoed back", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()

		middleware(next).ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rr := httptest.NewRecorder()

		middleware(next).ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/cart/items", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()

		middleware(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		wildcard := CORSMiddleware(DefaultCORSConfig([]string{"*"}))

		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set("Origin", "http://anything.example.com")
		rr := httptest.NewRecorder()

		wildcard(next).ServeHTTP(rr, req)

		assert.Equal(t, "http://anything.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
