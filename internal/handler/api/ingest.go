package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"GannForce/internal/domain/models"
	"GannForce/internal/usecase"
	xhttp "GannForce/pkg/http"
	xlogger "GannForce/pkg/logger"
)

// IngestHandler accepts scraper output over HTTP.
type IngestHandler struct {
	logger *xlogger.Logger
	in     *usecase.Ingestor
}

func NewIngestHandler(logger *xlogger.Logger, in *usecase.Ingestor) *IngestHandler {
	return &IngestHandler{logger: logger, in: in}
}

func (h *IngestHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/ingest")
	g.POST("/cot", h.Cot)
	g.POST("/sentiment", h.Sentiment)
	g.POST("/orderbook", h.OrderBook)
}

func (h *IngestHandler) Cot(c echo.Context) error {
	var ds models.PositioningDataset
	if err := c.Bind(&ds); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("body must be a category-keyed object"))
	}
	res, err := h.in.IngestCot(c.Request().Context(), ds)
	return h.respond(c, res, err)
}

func (h *IngestHandler) Sentiment(c echo.Context) error {
	var ds models.SentimentDataset
	if err := c.Bind(&ds); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("body must be a sentiment snapshot"))
	}
	res, err := h.in.IngestSentiment(c.Request().Context(), ds)
	return h.respond(c, res, err)
}

func (h *IngestHandler) OrderBook(c echo.Context) error {
	var snap usecase.ScrapedOrderBook
	if err := c.Bind(&snap); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("body must be an order-book snapshot"))
	}
	res, err := h.in.IngestOrderBook(c.Request().Context(), snap)
	return h.respond(c, res, err)
}

func (h *IngestHandler) respond(c echo.Context, res usecase.IngestResult, err error) error {
	if errors.Is(err, usecase.ErrInvalidInput) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	if err != nil {
		h.logger.Error("ingest error", xlogger.String("dataset", res.Dataset), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("ingest failed").WithError(err))
	}
	return xhttp.AcceptedResponse(c, res)
}
