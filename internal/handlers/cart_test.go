package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shoppit/internal/models"
	"shoppit/internal/repositories"
	"shoppit/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func newCartRouter(service services.CartServiceInterface) *chi.Mux {
	handler := NewCartHandler(service)
	r := chi.NewRouter()
	r.Get("/api/cart", handler.GetCart)
	r.Get("/api/cart/stats", handler.GetCartStats)
	r.Get("/api/cart/contains", handler.ContainsProduct)
	r.Post("/api/cart/items", handler.AddItem)
	r.Patch("/api/cart/items/{itemID}", handler.UpdateItemQuantity)
	r.Delete("/api/cart/items/{itemID}", handler.DeleteItem)
	return r
}

func TestCartHandlerAddItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := &mockCartService{
			addItemFunc: func(cartCode string, productID int) (*repositories.CartItemDetail, error) {
				if cartCode != "abc12345678" || productID != 2 {
					t.Errorf("unexpected arguments %s/%d", cartCode, productID)
				}
				return &repositories.CartItemDetail{
					CartItem:     models.CartItem{ID: 10, CartID: 1, ProductID: 2, Quantity: 1},
					ProductName:  "Widget",
					ProductPrice: decimal.RequireFromString("10.00"),
				}, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"cart_code":"abc12345678","product_id":2}`))
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status 201, got %d", rec.Code)
		}

		var body map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["message"] != "Cart item created successfully" {
			t.Errorf("unexpected message %v", body["message"])
		}
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		service := &mockCartService{
			addItemFunc: func(cartCode string, productID int) (*repositories.CartItemDetail, error) {
				return nil, models.ErrProductNotFound
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"cart_code":"abc12345678","product_id":99}`))
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		service := &mockCartService{}

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestCartHandlerGetCart(t *testing.T) {
	service := &mockCartService{
		getCartFunc: func(cartCode string) (*services.CartView, error) {
			return &services.CartView{
				Cart: &models.Cart{ID: 1, CartCode: cartCode},
				Items: []*repositories.CartItemDetail{
					{
						CartItem:     models.CartItem{ID: 10, CartID: 1, ProductID: 2, Quantity: 2},
						ProductName:  "Widget",
						ProductPrice: decimal.RequireFromString("10.00"),
					},
				},
				Total: decimal.RequireFromString("20.00"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cart?cart_code=abc12345678", nil)
	rec := httptest.NewRecorder()
	newCartRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var view services.CartView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Cart.CartCode != "abc12345678" {
		t.Errorf("unexpected cart code %s", view.Cart.CartCode)
	}
	if view.Total.StringFixed(2) != "20.00" {
		t.Errorf("expected total 20.00, got %s", view.Total.StringFixed(2))
	}
}

func TestCartHandlerGetCartStats(t *testing.T) {
	service := &mockCartService{
		getCartStatsFunc: func(cartCode string) (*services.CartStats, error) {
			return &services.CartStats{CartCode: cartCode, ItemCount: 5}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cart/stats?cart_code=abc12345678", nil)
	rec := httptest.NewRecorder()
	newCartRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var stats services.CartStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.ItemCount != 5 {
		t.Errorf("expected item count 5, got %d", stats.ItemCount)
	}
}

func TestCartHandlerContainsProduct(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		service := &mockCartService{
			hasProductFunc: func(cartCode string, productID int) (bool, error) {
				return true, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/cart/contains?cart_code=abc12345678&product_id=2", nil)
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		var body map[string]bool
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !body["product_in_cart"] {
			t.Error("expected product_in_cart = true")
		}
	})

	t.Run("non-numeric product id maps to 400", func(t *testing.T) {
		service := &mockCartService{}

		req := httptest.NewRequest(http.MethodGet, "/api/cart/contains?cart_code=abc12345678&product_id=two", nil)
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestCartHandlerUpdateItemQuantity(t *testing.T) {
	service := &mockCartService{
		updateItemQuantityFunc: func(itemID, quantity int) (*models.CartItem, error) {
			if itemID != 10 || quantity != 4 {
				t.Errorf("unexpected arguments %d/%d", itemID, quantity)
			}
			return &models.CartItem{ID: 10, CartID: 1, ProductID: 2, Quantity: 4}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/10", strings.NewReader(`{"quantity":4}`))
	rec := httptest.NewRecorder()
	newCartRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestCartHandlerDeleteItem(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		service := &mockCartService{
			removeItemFunc: func(itemID int) error {
				if itemID != 10 {
					t.Errorf("unexpected item id %d", itemID)
				}
				return nil
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/10", nil)
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("unknown item maps to 404", func(t *testing.T) {
		service := &mockCartService{
			removeItemFunc: func(itemID int) error {
				return models.ErrCartItemNotFound
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/99", nil)
		rec := httptest.NewRecorder()
		newCartRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}
