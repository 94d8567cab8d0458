package routes

import (
	"kirana/cart"
	"kirana/middleware"
	"kirana/orders"
	"kirana/products"
	"kirana/ratelim"
	"kirana/reports"
	"kirana/users"

	"github.com/julienschmidt/httprouter"
)

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(middleware.OptionalAuth(products.GetProducts)))
	router.GET("/api/products/:id", middleware.OptionalAuth(products.GetProduct))
	router.POST("/api/products", middleware.Authenticate(products.CreateProduct))
	router.DELETE("/api/products/:id", middleware.Authenticate(products.DeleteProduct))
	router.GET("/api/categories", rl.Limit(products.GetCategories))
}

func AddUserRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/users", rl.Limit(middleware.Authenticate(users.GetUsers)))
	router.GET("/api/users/role/:role", rl.Limit(middleware.Authenticate(users.GetUsersByRole)))
	router.GET("/api/roles", rl.Limit(middleware.Authenticate(users.GetRoles)))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/add", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.POST("/api/cart/remove", rl.Limit(middleware.Authenticate(cart.RemoveFromCart)))
	router.POST("/api/cart/empty", middleware.Authenticate(cart.EmptyCart))
	router.DELETE("/api/cart/:id", middleware.Authenticate(cart.DeleteCart))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/checkout/:cartId", rl.Limit(middleware.Authenticate(orders.CheckoutCart)))
	router.POST("/api/orders/initiate/:cartId", rl.Limit(middleware.Authenticate(orders.InitiateCheckout)))
	router.POST("/api/orders/order/:id/capture", rl.Limit(middleware.Authenticate(orders.CapturePayment)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetOrders))
	router.GET("/api/orders/recent", middleware.Authenticate(orders.RecentOrders))
	router.GET("/api/orders/order/:id", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/order/:id/invoice", middleware.Authenticate(orders.OrderInvoice))
}

func AddReportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/reports/revenue/month", rl.Limit(middleware.Authenticate(reports.RevenueMonthHandler)))
	router.GET("/api/reports/revenue/year", rl.Limit(middleware.Authenticate(reports.RevenueYearHandler)))
	router.GET("/api/reports/revenue/graph", rl.Limit(middleware.Authenticate(reports.RevenueGraphHandler)))
	router.GET("/api/reports/users/month", rl.Limit(middleware.Authenticate(reports.SignupsMonthHandler)))
	router.GET("/api/reports/users/year", rl.Limit(middleware.Authenticate(reports.SignupsYearHandler)))
	router.GET("/api/reports/bestsellers", rl.Limit(middleware.Authenticate(reports.BestSellersHandler)))
	router.GET("/api/reports/sales/category", rl.Limit(middleware.Authenticate(reports.SalesByCategoryHandler)))
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter) {
	AddProductRoutes(router, rl)
	AddUserRoutes(router, rl)
	AddCartRoutes(router, rl)
	AddOrderRoutes(router, rl)
	AddReportRoutes(router, rl)
}
