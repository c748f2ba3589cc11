// Package handler exposes the HTTP surface: route registration, request
// decoding, the query-string firewall and the uniform response envelopes.
// All domain decisions live in the service layer; handlers translate between
// HTTP and the services.
//
// Package handler 暴露HTTP表面：路由注册、请求解码、查询串防火墙和
// 统一的响应信封。所有领域决策都在服务层；处理器在HTTP与服务之间翻译。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/auth"
	"github.com/weblarek/backend/internal/middleware"
	"github.com/weblarek/backend/internal/service"
)

// Handler bundles the services behind the HTTP surface.
// Handler 将HTTP表面背后的服务打包在一起。
type Handler struct {
	customers *service.Customers
	orders    *service.Orders
	products  *service.Products
	log       *zap.Logger
}

func New(customers *service.Customers, orders *service.Orders, products *service.Products, log *zap.Logger) *Handler {
	registerValidators()
	return &Handler{customers: customers, orders: orders, products: products, log: log}
}

// Register wires the middleware chain and the API routes onto the engine.
// Register 将中间件链和API路由接到引擎上。
func (h *Handler) Register(r *gin.Engine) {
	r.Use(
		middleware.RequestLogger(h.log),
		middleware.Recovery(h.log),
		middleware.Identity(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)

	customers := api.Group("/customers", middleware.RequireAuth())
	customers.GET("", h.listCustomers)
	customers.GET("/:id", h.getCustomer)
	customers.PATCH("/:id", h.updateCustomer)
	customers.DELETE("/:id", middleware.RequireAdmin(), h.deleteCustomer)

	orders := api.Group("/orders", middleware.RequireAuth())
	orders.GET("", h.listOrders)
	orders.GET("/me", h.listMyOrders)
	orders.GET("/:number", h.getOrder)
	orders.POST("", h.createOrder)
	orders.PATCH("/:number", middleware.RequireAdmin(), h.updateOrderStatus)
	orders.DELETE("/:id", middleware.RequireAdmin(), h.deleteOrder)
}

// identity returns the identity attached by the middleware. The RequireAuth
// guard runs first on every route that calls this, so absence is a
// programming error, handled by the recovery middleware.
//
// identity 返回中间件附加的身份。每个调用此函数的路由都先经过RequireAuth
// 守卫，因此缺失属于编程错误，由恢复中间件兜底。
func identity(c *gin.Context) auth.Identity {
	who, ok := auth.FromContext(c.Request.Context())
	if !ok {
		panic("route missing the auth guard")
	}
	return who
}
