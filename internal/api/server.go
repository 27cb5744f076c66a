package api

import "github.com/RoyceAzure/lab/storefront/internal/api/handler"

// Server 聚合所有handler 供router註冊路由
type Server struct {
	AuthHandler      *handler.AuthHandler
	ProductHandler   *handler.ProductHandler
	CartHandler      *handler.CartHandler
	OrderHandler     *handler.OrderHandler
	ReviewHandler    *handler.ReviewHandler
	MarketingHandler *handler.MarketingHandler
}

func NewServer(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	marketingHandler *handler.MarketingHandler,
) *Server {
	return &Server{
		AuthHandler:      authHandler,
		ProductHandler:   productHandler,
		CartHandler:      cartHandler,
		OrderHandler:     orderHandler,
		ReviewHandler:    reviewHandler,
		MarketingHandler: marketingHandler,
	}
}
