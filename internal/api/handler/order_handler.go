package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		orderService: orderService,
	}
}

// @Summary place order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.PlaceOrderDTO true "items(optional, defaults to cart), shipping address and payment method"
// @Success 201 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 400 {object} api.ResponseError "InsufficientStockCode"
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var placeDTO dto.PlaceOrderDTO
	if err := decodeJSON(r, &placeDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	lines := make([]db.OrderLine, 0, len(placeDTO.Items))
	for _, item := range placeDTO.Items {
		lines = append(lines, db.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orderService.PlaceOrder(r.Context(), actor.UserID, service.PlaceOrderInput{
		Items:           lines,
		ShippingAddress: convertAddressDTOToModel(placeDTO.ShippingAddress),
		PaymentMethod:   placeDTO.PaymentMethod,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.CreatedJSON(w, convertOrderToDTO(order))
}

// @Summary list my orders
// @Tags orders
// @Produce json
// @Success 200 {object} api.Response{data=[]dto.OrderDTO} "success"
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	orders, err := h.orderService.ListUserOrders(r.Context(), actor.UserID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrdersToDTO(orders), nil)
}

// @Summary get order detail
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFoundCode"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderToDTO(order), nil)
}

// @Summary cancel order and restock
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param reason body dto.CancelOrderDTO false "cancel reason"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidTransitionCode"
// @Security ApiKeyAuth
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	//body可省略
	var cancelDTO dto.CancelOrderDTO
	_ = decodeJSON(r, &cancelDTO)

	order, err := h.orderService.CancelOrder(r.Context(), actor, orderID, cancelDTO.Reason)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderToDTO(order), nil)
}

// @Summary track order by tracking number
// @Tags orders
// @Produce json
// @Param trackingNumber path string true "tracking number"
// @Success 200 {object} api.Response{data=service.TrackingInfo} "success"
// @Failure 404 {object} api.ResponseError "NotFoundCode"
// @Router /orders/track/{trackingNumber} [get]
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		api.ErrorJSON(w, er.New(er.BadRequestCode, "tracking number is required"))
		return
	}

	info, err := h.orderService.TrackByNumber(r.Context(), trackingNumber)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, info, nil)
}

// @Summary list all orders
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Router /orders/admin/all [get]
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	page := constants.DefaultPaging
	pageSize := constants.DefaultPagingSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := parsePositiveInt(raw); err == nil {
			page = v
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := parsePositiveInt(raw); err == nil {
			pageSize = v
		}
	}

	orders, total, err := h.orderService.ListAllOrders(r.Context(), page, pageSize)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrdersToDTO(orders), api.PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	})
}

// @Summary update order status
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var statusDTO dto.UpdateOrderStatusDTO
	if err := decodeJSON(r, &statusDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, statusDTO.Status, statusDTO.TrackingNumber)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderToDTO(order), nil)
}

// @Summary update payment status
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /orders/{id}/payment-status [patch]
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	var statusDTO dto.UpdatePaymentStatusDTO
	if err := decodeJSON(r, &statusDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(r.Context(), orderID, statusDTO.Status)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderToDTO(order), nil)
}

func convertAddressDTOToModel(addr dto.ShippingAddressDTO) model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   addr.FullName,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Phone:      addr.Phone,
	}
}

func convertAddressModelToDTO(addr model.ShippingAddress) dto.ShippingAddressDTO {
	return dto.ShippingAddressDTO{
		FullName:   addr.FullName,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Phone:      addr.Phone,
	}
}

func convertOrderToDTO(order *model.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, dto.OrderItemDTO{
			ProductID: item.ProductID,
			Title:     item.Title,
			ImageURL:  item.ImageURL,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return dto.OrderDTO{
		ID:                order.OrderID,
		Items:             items,
		ShippingAddress:   convertAddressModelToDTO(order.ShippingAddress),
		TotalPrice:        order.TotalPrice,
		Status:            string(order.Status),
		PaymentStatus:     string(order.PaymentStatus),
		PaymentMethod:     order.PaymentMethod,
		TrackingNumber:    order.TrackingNumber,
		CancelReason:      order.CancelReason,
		EstimatedDelivery: order.EstimatedDelivery,
		CreatedAt:         order.CreatedAt,
	}
}

func convertOrdersToDTO(orders []model.Order) []dto.OrderDTO {
	out := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, convertOrderToDTO(&orders[i]))
	}
	return out
}
