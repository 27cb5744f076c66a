package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
)

// 發出請求的身分 handler從token payload組出來
type Actor struct {
	UserID uuid.UUID
	Role   constants.RoleEnum
}

func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}

type PlaceOrderInput struct {
	Items           []db.OrderLine
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
}

// 貨態里程碑 由當前狀態與固定偏移合成 僅供顯示 不是事件稽核紀錄
type Milestone struct {
	Status      model.OrderStatus `json:"status"`
	Description string            `json:"description"`
	At          time.Time         `json:"at"`
	Reached     bool              `json:"reached"`
}

type TrackingInfo struct {
	TrackingNumber    string            `json:"tracking_number"`
	Status            model.OrderStatus `json:"status"`
	EstimatedDelivery time.Time         `json:"estimated_delivery"`
	Milestones        []Milestone       `json:"milestones"`
}

// ProductCacheInvalidator 下單/取消改了庫存後讓商品快取失效
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...uint)
}

type IOrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uint) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	ListAllOrders(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, status string, trackingNumber string) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uint, status string) (*model.Order, error)
	CancelOrder(ctx context.Context, actor Actor, orderID uint, reason string) (*model.Order, error)
	TrackByNumber(ctx context.Context, trackingNumber string) (*TrackingInfo, error)
}

type OrderService struct {
	orderRepo        db.IOrderRepository
	cartRepo         db.ICartRepository
	cacheInvalidator ProductCacheInvalidator
}

// cacheInvalidator可為nil 沒接redis時直接落db
func NewOrderService(orderRepo db.IOrderRepository, cartRepo db.ICartRepository, cacheInvalidator ProductCacheInvalidator) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		cacheInvalidator: cacheInvalidator,
	}
}

// PlaceOrder 下單
// 未帶明細時以購物車內容下單 驗證全過才會有任何寫入
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*model.Order, error) {
	if err := validateShippingAddress(input.ShippingAddress); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, er.New(er.BadRequestCode, "payment method is required")
	}

	lines := input.Items
	if len(lines) == 0 {
		cartItems, err := s.cartRepo.GetCartItems(ctx, userID)
		if err != nil {
			return nil, mapDbErr(err, "")
		}
		for _, item := range cartItems {
			lines = append(lines, db.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}
	if len(lines) == 0 {
		return nil, er.New(er.BadRequestCode, "order items are required")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, er.New(er.BadRequestCode, "quantity must be at least 1")
		}
	}

	order, err := s.orderRepo.PlaceOrder(ctx, userID, lines, input.ShippingAddress, input.PaymentMethod)
	if err != nil {
		return nil, mapDbErr(err, placeOrderErrMsg(err))
	}

	s.invalidateProducts(ctx, order.OrderItems)
	return order, nil
}

func placeOrderErrMsg(err error) string {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return "one or more products were not found"
	case errors.Is(err, db.ErrNotEnoughStock):
		return "insufficient stock for one or more products"
	default:
		return ""
	}
}

// GetOrder 訂單只有本人與admin看得到 其他人視為不存在
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, mapDbErr(err, "order not found")
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, er.New(er.NotFoundCode, "order not found")
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, mapDbErr(err, "")
	}
	return orders, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	if page < 1 {
		page = constants.DefaultPaging
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPagingSize
	}
	if pageSize > constants.MaxPagingSize {
		pageSize = constants.MaxPagingSize
	}
	orders, total, err := s.orderRepo.GetOrdersPaginated(ctx, page, pageSize)
	if err != nil {
		return nil, 0, mapDbErr(err, "")
	}
	return orders, total, nil
}

// UpdateStatus admin更新訂單狀態
// 只允許狀態機單向前進 取消要走CancelOrder做庫存回補
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string, trackingNumber string) (*model.Order, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, er.New(er.InvalidValueCode, "invalid order status: "+status)
	}
	next := model.OrderStatus(status)
	if next == model.OrderStatusCancelled {
		return nil, er.New(er.InvalidTransitionCode, "use the cancel operation to cancel an order")
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, mapDbErr(err, "order not found")
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, er.New(er.InvalidTransitionCode,
			"cannot move order from "+string(order.Status)+" to "+status)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, order.Status, next, trackingNumber); err != nil {
		return nil, mapDbErr(err, updateStatusErrMsg(err, status))
	}
	order.Status = next
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, status string) (*model.Order, error) {
	if !model.IsValidPaymentStatus(status) {
		return nil, er.New(er.InvalidValueCode, "invalid payment status: "+status)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, mapDbErr(err, "order not found")
	}

	if err := s.orderRepo.UpdateOrderPaymentStatus(ctx, orderID, model.PaymentStatus(status)); err != nil {
		return nil, mapDbErr(err, "order not found")
	}
	order.PaymentStatus = model.PaymentStatus(status)
	return order, nil
}

// CancelOrder 取消訂單 本人或admin
// shipped/delivered/cancelled不能再取消
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, orderID uint, reason string) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, mapDbErr(err, "order not found")
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, er.New(er.UnauthorizedCode, "not allowed to cancel this order")
	}

	cancelled, err := s.orderRepo.CancelOrder(ctx, orderID, reason)
	if err != nil {
		return nil, mapDbErr(err, cancelErrMsg(err, order.Status))
	}

	s.invalidateProducts(ctx, cancelled.OrderItems)
	return cancelled, nil
}

func updateStatusErrMsg(err error, status string) string {
	if errors.Is(err, db.ErrInvalidTransition) {
		return "order status changed concurrently, cannot move to " + status
	}
	return "order not found"
}

func cancelErrMsg(err error, status model.OrderStatus) string {
	if errors.Is(err, db.ErrInvalidTransition) {
		return "order in status " + string(status) + " cannot be cancelled"
	}
	return ""
}

// TrackByNumber 公開查詢 無需登入
// 回傳的是由當前狀態合成的展示用歷程 不是實際事件時間
func (s *OrderService) TrackByNumber(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	order, err := s.orderRepo.GetOrderByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, mapDbErr(err, "tracking number not found")
	}
	return BuildTrackingInfo(order), nil
}

// BuildTrackingInfo 里程碑時間為下單時間+固定偏移的推估值
func BuildTrackingInfo(order *model.Order) *TrackingInfo {
	placedAt := order.CreatedAt

	if order.Status == model.OrderStatusCancelled {
		return &TrackingInfo{
			TrackingNumber:    order.TrackingNumber,
			Status:            order.Status,
			EstimatedDelivery: order.EstimatedDelivery,
			Milestones: []Milestone{
				{Status: model.OrderStatusPending, Description: "Order placed", At: placedAt, Reached: true},
				{Status: model.OrderStatusCancelled, Description: "Order cancelled", At: order.UpdatedAt, Reached: true},
			},
		}
	}

	stages := []struct {
		status      model.OrderStatus
		description string
		offsetDays  int
	}{
		{model.OrderStatusPending, "Order placed", 0},
		{model.OrderStatusProcessing, "Order is being prepared", 1},
		{model.OrderStatusShipped, "Package handed to carrier", 3},
		{model.OrderStatusDelivered, "Package delivered", 7},
	}

	currentRank := orderStatusRankOf(order.Status)
	milestones := make([]Milestone, 0, len(stages))
	for i, stage := range stages {
		at := placedAt.AddDate(0, 0, stage.offsetDays)
		if stage.status == model.OrderStatusDelivered {
			at = order.EstimatedDelivery
		}
		milestones = append(milestones, Milestone{
			Status:      stage.status,
			Description: stage.description,
			At:          at,
			Reached:     i <= currentRank,
		})
	}

	return &TrackingInfo{
		TrackingNumber:    order.TrackingNumber,
		Status:            order.Status,
		EstimatedDelivery: order.EstimatedDelivery,
		Milestones:        milestones,
	}
}

func orderStatusRankOf(status model.OrderStatus) int {
	switch status {
	case model.OrderStatusPending:
		return 0
	case model.OrderStatusProcessing:
		return 1
	case model.OrderStatusShipped:
		return 2
	case model.OrderStatusDelivered:
		return 3
	default:
		return -1
	}
}

func (s *OrderService) invalidateProducts(ctx context.Context, items []model.OrderItem) {
	if s.cacheInvalidator == nil {
		return
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	s.cacheInvalidator.Invalidate(ctx, ids...)
}

// validateShippingAddress 必填: 收件人/地址一/城市/州省/郵遞區號/電話
func validateShippingAddress(addr model.ShippingAddress) error {
	missing := []string{}
	check := func(field, name string) {
		if strings.TrimSpace(field) == "" {
			missing = append(missing, name)
		}
	}
	check(addr.FullName, "full_name")
	check(addr.Line1, "line1")
	check(addr.City, "city")
	check(addr.State, "state")
	check(addr.PostalCode, "postal_code")
	check(addr.Phone, "phone")

	if len(missing) > 0 {
		return er.New(er.BadRequestCode, "shipping address missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}
