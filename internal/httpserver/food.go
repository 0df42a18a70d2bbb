package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Skotchmaster/food_delivery/internal/es"
	"github.com/Skotchmaster/food_delivery/internal/service"
	"github.com/Skotchmaster/food_delivery/internal/transport"
	"github.com/Skotchmaster/food_delivery/internal/util"
	"github.com/Skotchmaster/food_delivery/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DishSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []es.DishDocument, error)
}

type FoodHTTP struct {
	Svc    *service.FoodService
	Search DishSearcher
}

// fail maps a service error onto a status code and logs it under event.
func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *FoodHTTP) ExpensiveDishes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dishes.expensive")

	minPrice := service.DefaultMinPrice
	if err := echo.QueryParamsBinder(c).Float64("min_price", &minPrice).BindError(); err != nil {
		l.Warn("expensive_dishes_error", "status", 400, "reason", "min_price is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "min_price is not a number")
	}

	dishes, err := h.Svc.ExpensiveDishes(ctx, minPrice)
	if err != nil {
		return fail(l, "expensive_dishes_error", err)
	}

	l.Info("expensive_dishes_success", "count", len(dishes))
	return c.JSON(http.StatusOK, transport.NewList(dishes))
}

func (h *FoodHTTP) SearchDishes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dishes.search")

	if h.Search == nil {
		l.Warn("search_dishes_error", "status", 503, "reason", "search index disabled")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_dishes_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Search.Search(ctx, q, from, limit)
	if err != nil {
		l.Error("search_dishes_error", "status", 502, "reason", "search backend failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}
	if docs == nil {
		docs = []es.DishDocument{}
	}

	l.Info("search_dishes_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": docs,
		"meta": map[string]any{
			"page":     page,
			"size":     limit,
			"total":    total,
			"has_prev": page > 1,
			"has_next": int64(from+limit) < total,
		},
	})
}

func (h *FoodHTTP) CustomerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customers.orders")

	orders, err := h.Svc.CustomerOrders(ctx, c.QueryParam("email"))
	if err != nil {
		return fail(l, "customer_orders_error", err)
	}

	l.Info("customer_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.NewList(orders))
}

func (h *FoodHTTP) RepeatCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.repeat_customers")

	minOrders := service.DefaultMinOrders
	if err := echo.QueryParamsBinder(c).Int("min_orders", &minOrders).BindError(); err != nil {
		l.Warn("repeat_customers_error", "status", 400, "reason", "min_orders is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "min_orders is not an integer")
	}

	rows, err := h.Svc.RepeatCustomers(ctx, minOrders)
	if err != nil {
		return fail(l, "repeat_customers_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewList(rows))
}

func (h *FoodHTTP) TopDishes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.top_dishes")

	limit := service.DefaultTopDishes
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		l.Warn("top_dishes_error", "status", 400, "reason", "limit is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "limit is not an integer")
	}

	rows, err := h.Svc.TopDishes(ctx, limit)
	if err != nil {
		return fail(l, "top_dishes_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewList(rows))
}

func (h *FoodHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stats")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "stats_error", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *FoodHTTP) CompleteNext(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.complete_next")

	n, err := h.Svc.CompleteNextPreparingOrder(ctx)
	if err != nil {
		return fail(l, "complete_next_error", err)
	}

	l.Info("complete_next_success", "modified", n, "user_id", c.Get("user_id"))
	return c.JSON(http.StatusOK, transport.ModifiedResponse{Modified: n})
}

func (h *FoodHTTP) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.change_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("change_status_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.ChangeOrderStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "change_status_error", err)
	}

	l.Info("change_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}
