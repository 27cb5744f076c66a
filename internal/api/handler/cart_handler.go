package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{
		cartService: cartService,
	}
}

// @Summary get my cart
// @Tags cart
// @Produce json
// @Success 200 {object} api.Response{data=dto.CartViewDTO} "success"
// @Security ApiKeyAuth
// @Router /cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	view, err := h.cartService.GetCart(r.Context(), actor.UserID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertCartViewToDTO(view), nil)
}

// @Summary add item to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.AddCartItemDTO true "product and quantity"
// @Success 200 {object} api.Response{data=dto.CartItemDTO} "success"
// @Failure 400 {object} api.ResponseError "InsufficientStockCode"
// @Security ApiKeyAuth
// @Router /cart [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var addDTO dto.AddCartItemDTO
	if err := decodeJSON(r, &addDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	item, err := h.cartService.AddItem(r.Context(), actor.UserID, addDTO.ProductID, addDTO.Quantity)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertCartItemToDTO(item), nil)
}

// @Summary update cart item quantity
// @Tags cart
// @Security ApiKeyAuth
// @Router /cart/{id} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	itemID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var updateDTO dto.UpdateCartItemDTO
	if err := decodeJSON(r, &updateDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	item, err := h.cartService.UpdateItem(r.Context(), actor.UserID, itemID, updateDTO.Quantity)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertCartItemToDTO(item), nil)
}

// @Summary remove cart item
// @Tags cart
// @Security ApiKeyAuth
// @Router /cart/{id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	itemID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), actor.UserID, itemID); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// @Summary clear cart
// @Tags cart
// @Security ApiKeyAuth
// @Router /cart [delete]
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	if err := h.cartService.ClearCart(r.Context(), actor.UserID); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

func convertCartItemToDTO(item *model.CartItem) dto.CartItemDTO {
	return dto.CartItemDTO{
		ID:       item.CartItemID,
		Product:  convertProductToDTO(&item.Product),
		Quantity: item.Quantity,
	}
}

func convertCartViewToDTO(view *service.CartView) dto.CartViewDTO {
	items := make([]dto.CartItemDTO, 0, len(view.Items))
	for i := range view.Items {
		items = append(items, convertCartItemToDTO(&view.Items[i]))
	}
	return dto.CartViewDTO{
		Items: items,
		Summary: dto.CartSummaryDTO{
			ItemsCount: view.Summary.ItemsCount,
			Subtotal:   view.Summary.Subtotal,
			Savings:    view.Summary.Savings,
			Total:      view.Summary.Total,
		},
	}
}
