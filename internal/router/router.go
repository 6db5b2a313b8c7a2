package router

import (
	"fmt"
	"strings"

	"github.com/checkout-next/internal/cache"
	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/constants"
	adminhandlers "github.com/checkout-next/internal/http/handlers/admin"
	"github.com/checkout-next/internal/http/handlers/internalapi"
	publichandlers "github.com/checkout-next/internal/http/handlers/public"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
// 仅注册本进程承载的服务路由，公开接口挂在 /api/v1，服务间接口挂在 /internal
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	internalHandler := internalapi.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "co"
	}
	paymentRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payment", redisPrefix),
		WindowSeconds: cfg.Gateway.PaymentRateLimit.WindowSeconds,
		MaxRequests:   cfg.Gateway.PaymentRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(IdentityMiddleware(cfg.Gateway), RoleGateMiddleware(c.AuthzService))

	internal := r.Group("/internal")
	internal.Use(InternalTokenMiddleware(cfg.Server.InternalToken))

	server := cfg.Server

	// 库存服务
	if server.Hosts(constants.ServiceInventory) {
		invent := apiV1.Group("/invent")
		{
			invent.POST("/admin/products", adminHandler.AdminCreateProduct)
			invent.PUT("/admin/products/:id", adminHandler.AdminUpdateProduct)
			invent.DELETE("/admin/products/:id", adminHandler.AdminDeleteProduct)
			invent.PUT("/admin/products/:id/quantity", adminHandler.AdminUpdateQuantity)
			invent.GET("/admin-biller-customer/products", publicHandler.ListProducts)
			invent.GET("/biller-customer/products/:id", publicHandler.GetProduct)
			invent.GET("/customer/products/by-category", publicHandler.ListProductsByCategory)
			invent.GET("/biller/products/by-name", publicHandler.GetProductByName)
		}

		inventory := internal.Group("/inventory")
		{
			inventory.GET("/products/by-name", internalHandler.GetProductByName)
			inventory.GET("/products/:id", internalHandler.GetProduct)
			inventory.PUT("/products/:id/reduce-stock", internalHandler.ReduceStock)
		}
	}

	// 购物车服务
	if server.Hosts(constants.ServiceCart) {
		cart := apiV1.Group("/cart")
		{
			cart.GET("/customer/cart", publicHandler.GetMyCart)
			cart.POST("/customer/cart/items", publicHandler.AddToMyCart)
			cart.PUT("/customer/cart/items/increase", publicHandler.IncreaseMyItem)
			cart.PUT("/customer/cart/items/decrease", publicHandler.DecreaseMyItem)
			cart.DELETE("/customer/cart/items", publicHandler.RemoveMyItem)
			cart.DELETE("/customer/cart", publicHandler.ClearMyCart)

			cart.GET("/biller/carts/:user_id", publicHandler.BillerGetCart)
			cart.POST("/biller/carts/:user_id/items", publicHandler.BillerAddToCart)
			cart.PUT("/biller/carts/:user_id/items/increase", publicHandler.BillerIncreaseItem)
			cart.PUT("/biller/carts/:user_id/items/decrease", publicHandler.BillerDecreaseItem)
			cart.DELETE("/biller/carts/:user_id/items", publicHandler.BillerRemoveItem)
			cart.DELETE("/biller/carts/:user_id/contents", publicHandler.BillerClearCart)

			cart.DELETE("/admin/carts/:id", adminHandler.AdminDeleteCart)
		}

		carts := internal.Group("/cart")
		{
			carts.GET("/users/:user_id/items", internalHandler.GetCartItems)
			carts.GET("/users/:user_id/cart-id", internalHandler.GetCartID)
			carts.DELETE("/users/:user_id/checkout", internalHandler.CheckoutCart)
		}
	}

	// 订单服务
	if server.Hosts(constants.ServiceOrder) {
		bill := apiV1.Group("/bill")
		{
			bill.POST("/customer/orders", publicHandler.PlaceMyOrder)
			bill.GET("/customer/orders", publicHandler.ListMyOrders)
			bill.GET("/customer/orders/:id", publicHandler.GetMyOrder)
			bill.DELETE("/customer/orders/:id", publicHandler.CancelMyOrder)

			bill.POST("/biller/orders/:user_id", publicHandler.BillerPlaceOrder)
			bill.DELETE("/biller/orders/:user_id/:order_id", publicHandler.BillerCancelOrder)

			bill.GET("/admin/orders", adminHandler.AdminListOrders)
			bill.GET("/admin/users/:user_id/orders", adminHandler.AdminListUserOrders)
			bill.GET("/admin-biller/orders/:id", publicHandler.GetOrderByID)
		}

		orders := internal.Group("/order")
		{
			orders.GET("/orders/:id", internalHandler.GetOrder)
		}
	}

	// 支付服务
	if server.Hosts(constants.ServicePayment) {
		payment := apiV1.Group("/payment")
		{
			payLimit := RateLimitMiddleware(cache.Client(), paymentRule, KeyByUser)
			payment.POST("/biller-customer/card", payLimit, publicHandler.PayByCard)
			payment.POST("/biller-customer/upi", payLimit, publicHandler.PayByUpi)
			payment.POST("/biller-customer/cash", payLimit, publicHandler.PayByCash)

			payment.GET("/customer/transactions", publicHandler.ListMyTransactions)
			payment.GET("/customer/transactions/:id", publicHandler.GetMyTransaction)
			payment.GET("/customer/orders/:order_id/transaction", publicHandler.GetMyTransactionByOrder)

			payment.GET("/admin/payments", adminHandler.AdminListPayments)
			payment.GET("/admin/payments/:id", adminHandler.AdminGetPayment)
			payment.GET("/admin/payments/mode/:mode", adminHandler.AdminListPaymentsByMode)
			payment.GET("/admin/reconciliations", adminHandler.AdminListReconciliationIssues)
			payment.POST("/admin/reconciliations/:id/resolve", adminHandler.AdminResolveReconciliationIssue)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "services": server.Services})
	})

	return r
}
