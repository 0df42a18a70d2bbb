package httpserver

import (
	"net/http"

	pkgdb "github.com/Skotchmaster/food_delivery/pkg/db"
	middleware "github.com/Skotchmaster/food_delivery/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	FoodHandler *FoodHTTP
	JWTSecret   []byte
	DB          *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewJWTMiddleware(d.JWTSecret)

	api := e.Group("/api/v1")

	dishes := api.Group("/dishes")
	dishes.GET("", d.FoodHandler.ExpensiveDishes)
	dishes.GET("/search", d.FoodHandler.SearchDishes)

	api.GET("/customers/orders", d.FoodHandler.CustomerOrders)
	api.GET("/reports/repeat-customers", d.FoodHandler.RepeatCustomers)
	api.GET("/reports/top-dishes", d.FoodHandler.TopDishes)
	api.GET("/stats", d.FoodHandler.Stats)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.POST("/orders/complete-next", d.FoodHandler.CompleteNext)
	admin.PATCH("/orders/:id/status", d.FoodHandler.ChangeStatus)
}
