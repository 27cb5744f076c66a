package router

import (
	"fmt"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, tokenMaker token.Maker, userService service.IUserService, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))

	adminOnly := m.AdminMiddleware(userService)
	withRole := m.RoleMiddleware(userService)

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", server.AuthHandler.Register)
			r.Post("/login", server.AuthHandler.Login)
			r.Post("/forgot-password", server.AuthHandler.ForgotPassword)
			r.With(m.AuthMiddleware).Get("/me", server.AuthHandler.Me)
			r.With(m.AuthMiddleware).Post("/logout", server.AuthHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			//公開瀏覽 admin帶token可看未上架商品
			r.With(withRole).Get("/", server.ProductHandler.ListProducts)
			r.With(withRole).Get("/{id}", server.ProductHandler.GetProduct)
			r.Get("/{id}/reviews", server.ReviewHandler.ListReviews)
			r.With(m.AuthMiddleware).Post("/{id}/reviews", server.ReviewHandler.CreateReview)

			//商品管理
			r.With(adminOnly).Post("/", server.ProductHandler.CreateProduct)
			r.With(adminOnly).Put("/{id}", server.ProductHandler.UpdateProduct)
			r.With(adminOnly).Delete("/{id}", server.ProductHandler.DeleteProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(m.AuthMiddleware)

			r.Get("/", server.CartHandler.GetCart)
			r.Post("/", server.CartHandler.AddItem)
			r.Put("/{id}", server.CartHandler.UpdateItem)
			r.Delete("/{id}", server.CartHandler.RemoveItem)
			r.Delete("/", server.CartHandler.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			//物流查詢免登入
			r.Get("/track/{trackingNumber}", server.OrderHandler.TrackOrder)

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware)

				r.Post("/", server.OrderHandler.PlaceOrder)
				r.Get("/", server.OrderHandler.ListMyOrders)
				//owner or admin
				r.With(withRole).Get("/{id}", server.OrderHandler.GetOrder)
				r.With(withRole).Post("/{id}/cancel", server.OrderHandler.CancelOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/admin/all", server.OrderHandler.ListAllOrders)
				r.Patch("/{id}/status", server.OrderHandler.UpdateOrderStatus)
				r.Patch("/{id}/payment-status", server.OrderHandler.UpdatePaymentStatus)
			})
		})

		//admin後台的行銷整合
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/products/{id}/generate-copy", server.MarketingHandler.GenerateCopy)
			r.Post("/products/{id}/approval-score", server.MarketingHandler.ScoreProduct)
			r.Post("/products/{id}/ad-campaign", server.MarketingHandler.CreateCampaign)
			r.Post("/supplier/import/{listingID}", server.MarketingHandler.ImportListing)
		})
	})

	// 在設置完所有路由後打印路由樹
	fmt.Println(chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		fmt.Printf("%s %s\n", method, route)
		return nil
	}))
	return r
}
