package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	pkgch "GannForce/pkg/clickhouse"
	applogger "GannForce/pkg/logger"
)

// CHSentimentStore stores retail sentiment scans.
type CHSentimentStore struct {
	ch    *pkgch.Client
	l     *applogger.Logger
	newID func() string
}

func NewCHSentimentStore(ch *pkgch.Client) *CHSentimentStore {
	return &CHSentimentStore{ch: ch, l: applogger.Nop(), newID: uuid.NewString}
}

// SetLogger injects a structured logger.
func (s *CHSentimentStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSentimentStore) Latest(ctx context.Context) (*models.SentimentDataset, error) {
	var (
		ds    models.SentimentDataset
		id    string
		total uint32
	)
	err := s.ch.DB().QueryRowContext(ctx,
		`SELECT id, source, total_symbols, scraped_at FROM sentiment_scans ORDER BY scraped_at DESC LIMIT 1`,
	).Scan(&id, &ds.Source, &total, &ds.ScrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domrepo.ErrNoScan
	}
	if err != nil {
		return nil, fmt.Errorf("latest sentiment scan: %w", err)
	}
	ds.TotalSymbols = int(total)

	rows, err := s.ch.DB().QueryContext(ctx,
		`SELECT symbol, short_pct, long_pct FROM sentiment_data WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		s.l.Error("clickhouse sentiment_data query error", applogger.String("scan_id", id), applogger.Error(err))
		return nil, fmt.Errorf("sentiment data: %w", err)
	}
	defer rows.Close()

	ds.Data = make([]models.SentimentAsset, 0, total)
	for rows.Next() {
		var a models.SentimentAsset
		if err := rows.Scan(&a.Symbol, &a.ShortPct, &a.LongPct); err != nil {
			return nil, fmt.Errorf("scan sentiment row: %w", err)
		}
		ds.Data = append(ds.Data, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sentiment rows: %w", err)
	}
	return &ds, nil
}

func (s *CHSentimentStore) Save(ctx context.Context, ds models.SentimentDataset) (string, error) {
	id := s.newID()
	rows := make([][]any, 0, len(ds.Data))
	for i, a := range ds.Data {
		rows = append(rows, []any{id, a.Symbol, a.ShortPct, a.LongPct, uint32(i)})
	}
	if err := s.ch.InsertBatch(ctx,
		`INSERT INTO sentiment_data (scan_id, symbol, short_pct, long_pct, position)`, rows); err != nil {
		return "", fmt.Errorf("insert sentiment data: %w", err)
	}
	if _, err := s.ch.DB().ExecContext(ctx,
		`INSERT INTO sentiment_scans (id, source, total_symbols, scraped_at) VALUES (?, ?, ?, ?)`,
		id, ds.Source, uint32(len(ds.Data)), ds.ScrapedAt.UTC(),
	); err != nil {
		return "", fmt.Errorf("insert sentiment scan: %w", err)
	}
	s.l.Info("sentiment scan stored", applogger.String("scan_id", id), applogger.Int("rows", len(rows)))
	return id, nil
}
