package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	xlogger "GannForce/pkg/logger"
)

const maxWebhookBody = 1 << 20

// WebhookHandler logs every request sent to it, whatever the method.
type WebhookHandler struct {
	logger *xlogger.Logger
	now    func() time.Time
}

func NewWebhookHandler(logger *xlogger.Logger) *WebhookHandler {
	return &WebhookHandler{logger: logger, now: time.Now}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.Any("/webhook", h.Receive)
}

func (h *WebhookHandler) Receive(c echo.Context) error {
	req := c.Request()
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("webhook body read failed", xlogger.Error(err))
	}

	headers := make(map[string]string, len(req.Header))
	for k := range req.Header {
		headers[k] = req.Header.Get(k)
	}
	var body interface{} = string(raw)
	var parsed interface{}
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		body = parsed
	}

	h.logger.Info("webhook received",
		xlogger.String("method", req.Method),
		xlogger.String("url", req.URL.String()),
		xlogger.Any("headers", headers),
		xlogger.Any("body", body),
	)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":       true,
		"received": h.now().UTC().Format(time.RFC3339Nano),
	})
}
