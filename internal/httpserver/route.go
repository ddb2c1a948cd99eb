package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hydroshop/backend/internal/session"
)

type Deps struct {
	CartHandler    *CartHTTP
	SavedHandler   *SavedHTTP
	ProductHandler *ProductHTTP
	Sessions       *session.Manager
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	identity := ResolveIdentity(d.JWTSecret, d.Sessions)

	cart := e.Group("/cart", identity)
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/summary", d.CartHandler.GetSummary)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateCartItem)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.DELETE("/:product_id", d.CartHandler.RemoveFromCart)
	cart.POST("/merge", d.CartHandler.MergeCart)

	saved := e.Group("/saved", identity)
	saved.GET("", d.SavedHandler.List)
	saved.POST("", d.SavedHandler.Save)
	saved.DELETE("/:product_id", d.SavedHandler.Unsave)

	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/:id", d.ProductHandler.GetProduct)
}
