package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ncastellano/ecommerce_backend/internal/middleware/auth"
)

type Deps struct {
	JWTSecret []byte

	Auth     *AuthHTTP
	Products *ProductHTTP
	Carts    *CartHTTP
	Checkout *CheckoutHTTP
	Recovery *RecoveryHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)
	v1.POST("/logout", d.Auth.Logout)

	v1.POST("/recovery/request", d.Recovery.Request)
	v1.POST("/recovery/reset", d.Recovery.Reset)

	products := v1.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/:id", d.Products.Get)

	admin := v1.Group("/admin", auth.RequireAdmin(d.JWTSecret))
	admin.POST("/products", d.Products.Create)
	admin.PATCH("/products/:id", d.Products.Patch)
	admin.DELETE("/products/:id", d.Products.Delete)

	cart := v1.Group("/cart", auth.RequireUser(d.JWTSecret))
	cart.GET("", d.Carts.Get)
	cart.POST("/items", d.Carts.AddItem)
	cart.PUT("/items", d.Carts.ReplaceItems)
	cart.PUT("/items/:productID", d.Carts.SetQuantity)
	cart.DELETE("/items/:productID", d.Carts.RemoveItem)
	cart.DELETE("", d.Carts.Clear)

	tickets := v1.Group("/tickets", auth.RequireUser(d.JWTSecret))
	tickets.POST("/purchase", d.Checkout.Purchase)
	tickets.GET("", d.Checkout.List)
	tickets.GET("/:code", d.Checkout.Get)
}
