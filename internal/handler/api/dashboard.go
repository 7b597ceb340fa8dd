package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"GannForce/internal/domain/models"
	"GannForce/internal/usecase"
	xhttp "GannForce/pkg/http"
	xlogger "GannForce/pkg/logger"
)

func init() {
	xhttp.RegisterValidation("sentiment_filter", func(fl validator.FieldLevel) bool {
		f := fl.Field().String()
		if f == "all" {
			return true
		}
		for _, s := range models.SentimentSignals {
			if string(s) == f {
				return true
			}
		}
		return false
	}, "must be all or a sentiment signal")
}

// DashboardHandler serves the read-only dashboard pages.
type DashboardHandler struct {
	logger *xlogger.Logger
	dash   *usecase.DashboardUseCase
	views  *usecase.ViewsUseCase
	mw     []echo.MiddlewareFunc
}

func NewDashboardHandler(logger *xlogger.Logger, dash *usecase.DashboardUseCase, views *usecase.ViewsUseCase, mw ...echo.MiddlewareFunc) *DashboardHandler {
	return &DashboardHandler{logger: logger, dash: dash, views: views, mw: mw}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.mw...)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/cot", h.Cot)
	g.GET("/sentiment", h.Sentiment)
	g.GET("/orderbook", h.OrderBook)
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	res, err := h.dash.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("dashboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Cot(c echo.Context) error {
	res, err := h.views.Cot(c.Request().Context())
	if err != nil {
		h.logger.Error("cot view error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("cot data unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Sentiment(c echo.Context) error {
	req := &usecase.SentimentQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.views.Sentiment(c.Request().Context(), *req)
	if err != nil {
		return h.viewError(c, "sentiment", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) OrderBook(c echo.Context) error {
	req := &usecase.OrderBookQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.views.OrderBook(c.Request().Context(), *req)
	if err != nil {
		return h.viewError(c, "orderbook", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) viewError(c echo.Context, view string, err error) error {
	if errors.Is(err, usecase.ErrInvalidInput) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	h.logger.Error("view error", xlogger.String("view", view), xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError(view+" data unavailable").WithError(err))
}
