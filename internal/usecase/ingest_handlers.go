package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"GannForce/internal/domain/models"
	pkgkafka "GannForce/pkg/kafka"
	applogger "GannForce/pkg/logger"
)

// CotIngestHandler consumes category-keyed COT scans.
type CotIngestHandler struct {
	topic string
	in    *Ingestor
	l     *applogger.Logger
}

func NewCotIngestHandler(topic string, in *Ingestor, l *applogger.Logger) *CotIngestHandler {
	return &CotIngestHandler{topic: topic, in: in, l: l}
}

func (h *CotIngestHandler) Topic() string { return h.topic }

func (h *CotIngestHandler) Handle(ctx context.Context, b []byte) error {
	var ds models.PositioningDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return fmt.Errorf("decode cot message: %w", err)
	}
	res, err := h.in.IngestCot(ctx, ds)
	if err != nil {
		return err
	}
	h.l.Info("cot scan ingested", applogger.String("scan_id", res.ScanID), applogger.Int("rows", res.Rows))
	return nil
}

// SentimentIngestHandler consumes sentiment snapshots.
type SentimentIngestHandler struct {
	topic string
	in    *Ingestor
	l     *applogger.Logger
}

func NewSentimentIngestHandler(topic string, in *Ingestor, l *applogger.Logger) *SentimentIngestHandler {
	return &SentimentIngestHandler{topic: topic, in: in, l: l}
}

func (h *SentimentIngestHandler) Topic() string { return h.topic }

func (h *SentimentIngestHandler) Handle(ctx context.Context, b []byte) error {
	var ds models.SentimentDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return fmt.Errorf("decode sentiment message: %w", err)
	}
	res, err := h.in.IngestSentiment(ctx, ds)
	if err != nil {
		return err
	}
	h.l.Info("sentiment scan ingested", applogger.String("scan_id", res.ScanID), applogger.Int("rows", res.Rows))
	return nil
}

// OrderBookIngestHandler consumes order-book snapshots in either format.
type OrderBookIngestHandler struct {
	topic string
	in    *Ingestor
	l     *applogger.Logger
}

func NewOrderBookIngestHandler(topic string, in *Ingestor, l *applogger.Logger) *OrderBookIngestHandler {
	return &OrderBookIngestHandler{topic: topic, in: in, l: l}
}

func (h *OrderBookIngestHandler) Topic() string { return h.topic }

func (h *OrderBookIngestHandler) Handle(ctx context.Context, b []byte) error {
	var snap ScrapedOrderBook
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode orderbook message: %w", err)
	}
	res, err := h.in.IngestOrderBook(ctx, snap)
	if err != nil {
		return err
	}
	h.l.Info("orderbook snapshot ingested", applogger.Int("rows", res.Rows))
	return nil
}

var (
	_ pkgkafka.MessageHandler = (*CotIngestHandler)(nil)
	_ pkgkafka.MessageHandler = (*SentimentIngestHandler)(nil)
	_ pkgkafka.MessageHandler = (*OrderBookIngestHandler)(nil)
)
