package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"GannForce/internal/domain/models"
	pkgch "GannForce/pkg/clickhouse"
	applogger "GannForce/pkg/logger"
)

const orderBookColumns = `symbol, orders_price, orders_buy_pct, orders_sell_pct,
    positions_price, positions_long_pct, positions_short_pct,
    positions_long_profit_pct, positions_long_loss_pct,
    positions_short_profit_pct, positions_short_loss_pct, scraped_at`

// CHOrderBookStore keeps the latest FastBull row per symbol in a
// ReplacingMergeTree keyed by symbol.
type CHOrderBookStore struct {
	ch  *pkgch.Client
	l   *applogger.Logger
	now func() time.Time
}

func NewCHOrderBookStore(ch *pkgch.Client) *CHOrderBookStore {
	return &CHOrderBookStore{ch: ch, l: applogger.Nop(), now: time.Now}
}

// SetLogger injects a structured logger.
func (s *CHOrderBookStore) SetLogger(l *applogger.Logger) { s.l = l }

// All returns every symbol, deduplicated with FINAL.
func (s *CHOrderBookStore) All(ctx context.Context) ([]models.OrderBookAsset, error) {
	rows, err := s.ch.DB().QueryContext(ctx,
		`SELECT `+orderBookColumns+` FROM fastbull_orderbook FINAL ORDER BY symbol`)
	if err != nil {
		s.l.Error("clickhouse fastbull_orderbook query error", applogger.Error(err))
		return nil, fmt.Errorf("orderbook query: %w", err)
	}
	defer rows.Close()

	var out []models.OrderBookAsset
	for rows.Next() {
		var (
			a                           models.OrderBookAsset
			ordersPrice, positionsPrice sql.NullString
			buy, sell, long, short      sql.NullFloat64
			longProfit, longLoss        sql.NullFloat64
			shortProfit, shortLoss      sql.NullFloat64
			scrapedAt                   sql.NullTime
		)
		if err := rows.Scan(&a.Symbol, &ordersPrice, &buy, &sell,
			&positionsPrice, &long, &short,
			&longProfit, &longLoss, &shortProfit, &shortLoss, &scrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan orderbook row: %w", err)
		}
		a.OrdersPrice = nullString(ordersPrice)
		a.OrdersBuyPct = nullFloat(buy)
		a.OrdersSellPct = nullFloat(sell)
		a.PositionsPrice = nullString(positionsPrice)
		a.PositionsLongPct = nullFloat(long)
		a.PositionsShortPct = nullFloat(short)
		a.PositionsLongProfitPct = nullFloat(longProfit)
		a.PositionsLongLossPct = nullFloat(longLoss)
		a.PositionsShortProfit = nullFloat(shortProfit)
		a.PositionsShortLoss = nullFloat(shortLoss)
		if scrapedAt.Valid {
			t := scrapedAt.Time
			a.ScrapedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orderbook rows: %w", err)
	}
	return out, nil
}

// Upsert writes rows with a fresh updated_at so they replace older versions.
func (s *CHOrderBookStore) Upsert(ctx context.Context, assets []models.OrderBookAsset) error {
	updatedAt := s.now().UTC()
	rows := make([][]any, 0, len(assets))
	for _, a := range assets {
		var scrapedAt any
		if a.ScrapedAt != nil {
			scrapedAt = a.ScrapedAt.UTC()
		}
		rows = append(rows, []any{
			a.Symbol, deref(a.OrdersPrice), deref(a.OrdersBuyPct), deref(a.OrdersSellPct),
			deref(a.PositionsPrice), deref(a.PositionsLongPct), deref(a.PositionsShortPct),
			deref(a.PositionsLongProfitPct), deref(a.PositionsLongLossPct),
			deref(a.PositionsShortProfit), deref(a.PositionsShortLoss),
			scrapedAt, updatedAt,
		})
	}
	if err := s.ch.InsertBatch(ctx,
		`INSERT INTO fastbull_orderbook (`+orderBookColumns+`, updated_at)`, rows); err != nil {
		s.l.Error("clickhouse fastbull_orderbook insert error", applogger.Int("rows", len(rows)), applogger.Error(err))
		return fmt.Errorf("upsert orderbook: %w", err)
	}
	return nil
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
