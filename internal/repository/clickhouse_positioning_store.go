package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/services/positioning"
	pkgch "GannForce/pkg/clickhouse"
	applogger "GannForce/pkg/logger"
)

const cotInsert = `INSERT INTO cot_data (
    scan_id, category, code, name, report_date, contract, contract_unit,
    open_interest, change_in_open_interest,
    nc_long, nc_short, nc_spreads, nc_net,
    chg_long, chg_short, chg_spreads,
    pct_long, pct_short, pct_spreads,
    unfulfilled_calls, position
)`

// CHPositioningStore stores COT scans in cot_scans/cot_data.
type CHPositioningStore struct {
	ch    *pkgch.Client
	l     *applogger.Logger
	newID func() string
}

func NewCHPositioningStore(ch *pkgch.Client) *CHPositioningStore {
	return &CHPositioningStore{ch: ch, l: applogger.Nop(), newID: uuid.NewString}
}

// SetLogger injects a structured logger.
func (s *CHPositioningStore) SetLogger(l *applogger.Logger) { s.l = l }

// Latest returns the most recently scraped scan, grouped by category.
func (s *CHPositioningStore) Latest(ctx context.Context) (*models.PositioningSnapshot, error) {
	var snap models.PositioningSnapshot
	err := s.ch.DB().QueryRowContext(ctx,
		`SELECT id, report_date FROM cot_scans ORDER BY scraped_at DESC LIMIT 1`,
	).Scan(&snap.ScanID, &snap.ReportDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domrepo.ErrNoScan
	}
	if err != nil {
		return nil, fmt.Errorf("latest cot scan: %w", err)
	}

	rows, err := s.ch.DB().QueryContext(ctx, `
        SELECT category, code, name, report_date, contract, contract_unit,
               open_interest, change_in_open_interest,
               nc_long, nc_short, nc_spreads, nc_net,
               chg_long, chg_short, chg_spreads,
               pct_long, pct_short, pct_spreads,
               unfulfilled_calls
        FROM cot_data
        WHERE scan_id = ?
        ORDER BY category, position`, snap.ScanID)
	if err != nil {
		s.l.Error("clickhouse cot_data query error", applogger.String("scan_id", snap.ScanID), applogger.Error(err))
		return nil, fmt.Errorf("cot data: %w", err)
	}
	defer rows.Close()

	snap.Data = make(models.PositioningDataset)
	for rows.Next() {
		var (
			a   models.PositioningAsset
			cat string
		)
		if err := rows.Scan(&cat, &a.Code, &a.Name, &a.ReportDate, &a.Contract, &a.ContractUnit,
			&a.OpenInterest, &a.ChangeInOpenInterest,
			&a.NonCommercial.Long, &a.NonCommercial.Short, &a.NonCommercial.Spreads, &a.NonCommercial.Net,
			&a.Changes.Long, &a.Changes.Short, &a.Changes.Spreads,
			&a.PctOfOpenInterest.Long, &a.PctOfOpenInterest.Short, &a.PctOfOpenInterest.Spreads,
			&a.UnfulfilledCalls,
		); err != nil {
			return nil, fmt.Errorf("scan cot row: %w", err)
		}
		a.Category = models.Category(cat)
		snap.Data[a.Category] = append(snap.Data[a.Category], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cot rows: %w", err)
	}
	return &snap, nil
}

// Save writes the data rows first and the scan header last, so Latest never
// sees a scan with missing rows.
func (s *CHPositioningStore) Save(ctx context.Context, ds models.PositioningDataset, scrapedAt time.Time) (string, error) {
	id := s.newID()
	rows := cotRows(id, ds)

	if err := s.ch.InsertBatch(ctx, cotInsert, rows); err != nil {
		return "", fmt.Errorf("insert cot data: %w", err)
	}
	reportDate := positioning.ReportDate(ds)
	if _, err := s.ch.DB().ExecContext(ctx,
		`INSERT INTO cot_scans (id, report_date, scraped_at) VALUES (?, ?, ?)`,
		id, reportDate, scrapedAt.UTC(),
	); err != nil {
		return "", fmt.Errorf("insert cot scan: %w", err)
	}
	s.l.Info("cot scan stored",
		applogger.String("scan_id", id),
		applogger.String("report_date", reportDate),
		applogger.Int("rows", len(rows)),
	)
	return id, nil
}

func cotRows(scanID string, ds models.PositioningDataset) [][]any {
	var out [][]any
	for _, cat := range models.CategoryOrder {
		for i, a := range ds[cat] {
			nc, chg, pct := a.NonCommercial, a.Changes, a.PctOfOpenInterest
			out = append(out, []any{
				scanID, string(cat), a.Code, a.Name, a.ReportDate, a.Contract, a.ContractUnit,
				deref(a.OpenInterest), deref(a.ChangeInOpenInterest),
				deref(nc.Long), deref(nc.Short), deref(nc.Spreads), deref(nc.Net),
				deref(chg.Long), deref(chg.Short), deref(chg.Spreads),
				deref(pct.Long), deref(pct.Short), deref(pct.Spreads),
				deref(a.UnfulfilledCalls), uint32(i),
			})
		}
	}
	return out
}
