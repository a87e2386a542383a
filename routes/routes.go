package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/middleware"
)

type Options struct {
	Tokens        *middleware.TokenIssuer
	SessionMaxAge int
	UploadDir     string

	// MaxBodyBytes caps the bodies of the routes that accept image uploads.
	MaxBodyBytes int64
}

func SetupRoutes(r *gin.Engine, h *handlers.Handlers, opts Options) {
	authRequired := middleware.AuthRequired(opts.Tokens)
	authOptional := middleware.AuthOptional(opts.Tokens)
	session := middleware.CartSession(opts.SessionMaxAge)
	limit := middleware.LimitBody(opts.MaxBodyBytes)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Restaurant Ordering API",
		})
	})
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Restaurants, menus and reviews (no auth needed)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)
		public.GET("/restaurants/:id/menu", h.GetMenu)
		public.GET("/restaurants/:id/reviews", h.ListReviews)
	}

	// ── Cart (anonymous session) ───────────────────────────────────
	carts := r.Group("/api/cart")
	carts.Use(session)
	{
		carts.GET("", h.ViewCart)
		carts.DELETE("", h.ClearCart)
		carts.POST("/items/:menuId", h.AddToCart)
		carts.PUT("/items/:menuId", h.SetCartQuantity)
		carts.DELETE("/items/:menuId", h.RemoveFromCart)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/profile", h.GetProfile)

		auth.POST("/checkout", session, h.Checkout)
		auth.GET("/orders", h.GetMyOrders)
		auth.GET("/orders/:id", h.GetOrderDetail)

		auth.POST("/restaurants", limit, h.CreateRestaurant)
		auth.GET("/my/restaurants", h.GetMyRestaurants)
		auth.POST("/restaurants/:id/reviews", h.AddReview)
	}

	// ── Owner routes (ownership checked per restaurant) ────────────
	owner := r.Group("/api")
	owner.Use(authOptional)
	{
		owner.PUT("/restaurants/:id", limit, h.UpdateRestaurant)
		owner.DELETE("/restaurants/:id", h.DeleteRestaurant)
		owner.GET("/restaurants/:id/orders", h.GetRestaurantOrders)

		owner.POST("/restaurants/:id/menu", limit, h.AddMenuItem)
		owner.PUT("/menu/:itemId", limit, h.UpdateMenuItem)
		owner.DELETE("/menu/:itemId", h.DeleteMenuItem)
	}
}
