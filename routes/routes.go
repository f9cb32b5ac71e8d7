package routes

import (
	"net/http"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/controllers"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/middleware"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controllers bundles the resource handlers mounted under the API prefix.
type Controllers struct {
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Customers  *controllers.CustomerController
	Orders     *controllers.OrderController
	Users      *controllers.UserController
	Auth       *controllers.AuthController
	Health     *controllers.HealthController
}

// RouterOptions carries the cross-cutting pieces of the HTTP stack.
type RouterOptions struct {
	APIPrefix          string
	Tokens             services.TokenIssuer
	Enforcer           *casbin.Enforcer
	Metrics            *middleware.ServerMetrics
	Logger             *zap.Logger
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
	RequestTimeout     time.Duration
}

// NewRouter builds the gin engine with the global middleware chain and every route.
func NewRouter(ctrl Controllers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.RateLimit(opts.RateLimitPerMinute, opts.RateLimitBurst))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	RegisterOpsRoutes(r, ctrl.Health, opts.Metrics)
	RegisterAPIRoutes(r.Group(opts.APIPrefix), ctrl, opts)
	return r
}

// RegisterOpsRoutes mounts /health and /metrics at the root.
func RegisterOpsRoutes(r *gin.Engine, health *controllers.HealthController, metrics *middleware.ServerMetrics) {
	r.GET("/health", health.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}

// RegisterAPIRoutes sets up every resource route. Catalog reads and token
// issuance are public; everything else requires a Bearer token and a
// matching RBAC permission.
func RegisterAPIRoutes(api *gin.RouterGroup, ctrl Controllers, opts RouterOptions) {
	auth := middleware.Auth(opts.Tokens)
	can := func(resource, action string) gin.HandlerFunc {
		return middleware.Authorize(opts.Enforcer, resource, action, opts.Logger)
	}

	api.POST("/auth/token", ctrl.Auth.Token)

	categories := api.Group("/categories")
	categories.GET("/", ctrl.Categories.ListCategories)
	categories.GET("/:id", ctrl.Categories.GetCategory)
	categories.POST("/", auth, can("categories", "write"), ctrl.Categories.CreateCategory)
	categories.PATCH("/:id", auth, can("categories", "write"), ctrl.Categories.UpdateCategory)
	categories.DELETE("/:id", auth, can("categories", "delete"), ctrl.Categories.DeleteCategory)

	products := api.Group("/products")
	products.GET("/", ctrl.Products.ListProducts)
	products.GET("/:id", ctrl.Products.GetProduct)
	products.POST("/", auth, can("products", "write"), ctrl.Products.CreateProduct)
	products.PATCH("/:id", auth, can("products", "write"), ctrl.Products.UpdateProduct)
	products.DELETE("/:id", auth, can("products", "delete"), ctrl.Products.DeleteProduct)

	customers := api.Group("/customers", auth)
	customers.GET("/", can("customers", "read"), ctrl.Customers.ListCustomers)
	customers.GET("/:id", can("customers", "read"), ctrl.Customers.GetCustomer)
	customers.POST("/", can("customers", "write"), ctrl.Customers.CreateCustomer)
	customers.PATCH("/:id", can("customers", "write"), ctrl.Customers.UpdateCustomer)
	customers.DELETE("/:id", can("customers", "delete"), ctrl.Customers.DeleteCustomer)

	orders := api.Group("/orders", auth)
	orders.GET("/", can("orders", "read"), ctrl.Orders.ListOrders)
	orders.GET("/locator/:locator", can("orders", "read"), ctrl.Orders.GetOrderByLocator)
	orders.GET("/:id", can("orders", "read"), ctrl.Orders.GetOrder)
	orders.POST("/", can("orders", "write"), ctrl.Orders.CreateOrder)
	orders.PATCH("/:id", can("orders", "write"), ctrl.Orders.UpdateOrder)
	orders.DELETE("/:id", can("orders", "delete"), ctrl.Orders.DeleteOrder)

	users := api.Group("/users", auth)
	users.GET("/me", ctrl.Users.Me)
	users.GET("/", can("users", "read"), ctrl.Users.ListUsers)
	users.GET("/:id", can("users", "read"), ctrl.Users.GetUser)
	users.POST("/", can("users", "write"), ctrl.Users.CreateUser)
	users.PATCH("/:id", can("users", "write"), ctrl.Users.UpdateUser)
	users.DELETE("/:id", can("users", "delete"), ctrl.Users.DeleteUser)
}
