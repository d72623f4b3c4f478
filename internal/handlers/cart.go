package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shoppit/internal/models"
	"shoppit/internal/services"

	"github.com/go-chi/chi/v5"
)

// CartHandler handles cart and cart item operations
type CartHandler struct {
	cartService services.CartServiceInterface
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService services.CartServiceInterface) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartCode  string `json:"cart_code"`
		ProductID int    `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}

	item, err := h.cartService.AddItem(req.CartCode, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data":    item,
		"message": "Cart item created successfully",
	})
}

// GetCart handles GET /api/cart?cart_code=
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")

	view, err := h.cartService.GetCart(cartCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetCartStats handles GET /api/cart/stats?cart_code=
func (h *CartHandler) GetCartStats(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")

	stats, err := h.cartService.GetCartStats(cartCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ContainsProduct handles GET /api/cart/contains?cart_code=&product_id=
func (h *CartHandler) ContainsProduct(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")
	productID, err := strconv.Atoi(r.URL.Query().Get("product_id"))
	if err != nil {
		writeError(w, models.NewValidationError("invalid product id"))
		return
	}

	exists, err := h.cartService.HasProduct(cartCode, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"product_in_cart": exists})
}

// UpdateItemQuantity handles PATCH /api/cart/items/{itemID}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, models.NewValidationError("invalid item id"))
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}

	item, err := h.cartService.UpdateItemQuantity(itemID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":    item,
		"message": "Cart item quantity updated successfully",
	})
}

// DeleteItem handles DELETE /api/cart/items/{itemID}
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, models.NewValidationError("invalid item id"))
		return
	}

	if err := h.cartService.RemoveItem(itemID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cart item deleted successfully",
	})
}
