package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	pkgch "GannForce/pkg/clickhouse"
)

func newMock(t *testing.T) (*pkgch.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return pkgch.NewFromDB(db), mock
}

func TestPositioningLatestNoScan(t *testing.T) {
	ch, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cot_scans")).WillReturnError(sql.ErrNoRows)

	_, err := NewCHPositioningStore(ch).Latest(context.Background())
	assert.ErrorIs(t, err, domrepo.ErrNoScan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPositioningLatest(t *testing.T) {
	ch, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cot_scans")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_date"}).AddRow("scan-1", "2025-02-11"))

	cols := []string{"category", "code", "name", "report_date", "contract", "contract_unit",
		"open_interest", "change_in_open_interest",
		"nc_long", "nc_short", "nc_spreads", "nc_net",
		"chg_long", "chg_short", "chg_spreads",
		"pct_long", "pct_short", "pct_spreads", "unfulfilled_calls"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM cot_data")).WithArgs("scan-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("Metals", "088691", "GOLD", "2025-02-11", "COMEX", "100 troy oz",
				500000, 1200, 300000, 100000, 20000, 200000, 5000, -1000, 0, 60.1, 20.2, 4.0, 50.0).
			AddRow("Metals", "084691", "SILVER", "2025-02-11", "COMEX", "",
				150000, -300, nil, nil, 8000, nil, 0, 0, 0, 33.3, nil, 5.3, nil))

	snap, err := NewCHPositioningStore(ch).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan-1", snap.ScanID)
	assert.Equal(t, "2025-02-11", snap.ReportDate)
	require.Len(t, snap.Data[models.CategoryMetals], 2)

	gold := snap.Data[models.CategoryMetals][0]
	assert.Equal(t, "GOLD", gold.Name)
	assert.Equal(t, models.CategoryMetals, gold.Category)
	require.NotNil(t, gold.NonCommercial.Net)
	assert.Equal(t, int64(200000), *gold.NonCommercial.Net)
	require.NotNil(t, gold.UnfulfilledCalls)
	assert.Equal(t, 50.0, *gold.UnfulfilledCalls)

	silver := snap.Data[models.CategoryMetals][1]
	assert.Nil(t, silver.UnfulfilledCalls)
	assert.Nil(t, silver.NonCommercial.Long)
	assert.Nil(t, silver.NonCommercial.Net)
	assert.Nil(t, silver.PctOfOpenInterest.Short)
	require.NotNil(t, silver.NonCommercial.Spreads)
	assert.Equal(t, int64(8000), *silver.NonCommercial.Spreads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPositioningSaveWritesRowsBeforeScan(t *testing.T) {
	ch, mock := newMock(t)
	store := NewCHPositioningStore(ch)
	store.newID = func() string { return "scan-2" }

	uc := 5.0
	ds := models.PositioningDataset{
		models.CategoryMetals: {
			{Name: "GOLD", ReportDate: "2025-02-11", UnfulfilledCalls: &uc},
			{Name: "SILVER", ReportDate: "2025-02-11"},
		},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO cot_data"))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cot_scans")).
		WithArgs("scan-2", "2025-02-11", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Save(context.Background(), ds, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "scan-2", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCotRowsFollowCategoryOrder(t *testing.T) {
	ds := models.PositioningDataset{
		models.CategorySofts:   {{Name: "COCOA"}},
		models.CategoryIndexes: {{Name: "E-MINI S&P 500"}, {Name: "NASDAQ"}},
	}
	rows := cotRows("s", ds)
	require.Len(t, rows, 3)
	assert.Equal(t, "Indexes", rows[0][1])
	assert.Equal(t, uint32(1), rows[1][20])
	assert.Equal(t, "Softs", rows[2][1])
	assert.Nil(t, rows[2][19])
}

func TestCotRowsWriteNullCells(t *testing.T) {
	long := int64(300)
	ds := models.PositioningDataset{
		models.CategoryMetals: {{Name: "GOLD", NonCommercial: models.PositionTuple{Long: &long}}},
	}
	row := cotRows("s", ds)[0]
	assert.Equal(t, int64(300), row[9])
	assert.Nil(t, row[10], "nc_short")
	assert.Nil(t, row[12], "nc_net")
	assert.Nil(t, row[7], "open_interest")
}

func TestSentimentLatest(t *testing.T) {
	ch, mock := newMock(t)
	ts := time.Date(2025, 2, 12, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sentiment_scans")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source", "total_symbols", "scraped_at"}).
			AddRow("s1", "myfxbook.com", 2, ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sentiment_data")).WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "short_pct", "long_pct"}).
			AddRow("XAUUSD", 30.0, 70.0).
			AddRow("EURUSD", 88.0, 12.0))

	ds, err := NewCHSentimentStore(ch).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "myfxbook.com", ds.Source)
	assert.Equal(t, 2, ds.TotalSymbols)
	assert.True(t, ds.ScrapedAt.Equal(ts))
	require.Len(t, ds.Data, 2)
	assert.Equal(t, "EURUSD", ds.Data[1].Symbol)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSentimentSave(t *testing.T) {
	ch, mock := newMock(t)
	store := NewCHSentimentStore(ch)
	store.newID = func() string { return "s2" }

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO sentiment_data"))
	prep.ExpectExec().WithArgs("s2", "XAUUSD", 30.0, 70.0, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sentiment_scans")).
		WithArgs("s2", "myfxbook.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Save(context.Background(), models.SentimentDataset{
		Source:    "myfxbook.com",
		ScrapedAt: time.Now(),
		Data:      []models.SentimentAsset{{Symbol: "XAUUSD", ShortPct: 30, LongPct: 70}},
	})
	require.NoError(t, err)
	assert.Equal(t, "s2", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderBookAllMapsNulls(t *testing.T) {
	ch, mock := newMock(t)
	ts := time.Date(2025, 2, 12, 10, 0, 0, 0, time.UTC)
	cols := []string{"symbol", "orders_price", "orders_buy_pct", "orders_sell_pct",
		"positions_price", "positions_long_pct", "positions_short_pct",
		"positions_long_profit_pct", "positions_long_loss_pct",
		"positions_short_profit_pct", "positions_short_loss_pct", "scraped_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM fastbull_orderbook FINAL")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("XAUUSD", "2901.5", 60.0, 40.0, "2901.5", 55.0, 45.0, 70.0, 30.0, 20.0, 80.0, ts).
			AddRow("US500", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))

	rows, err := NewCHOrderBookStore(ch).All(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].OrdersPrice)
	assert.Equal(t, "2901.5", *rows[0].OrdersPrice)
	assert.Equal(t, 80.0, *rows[0].PositionsShortLoss)
	assert.True(t, rows[0].ScrapedAt.Equal(ts))
	assert.Nil(t, rows[1].OrdersBuyPct)
	assert.Nil(t, rows[1].ScrapedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderBookUpsertStampsUpdatedAt(t *testing.T) {
	ch, mock := newMock(t)
	store := NewCHOrderBookStore(ch)
	now := time.Date(2025, 2, 12, 11, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	buy := 60.0
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO fastbull_orderbook"))
	prep.ExpectExec().
		WithArgs("XAUUSD", nil, buy, nil, nil, nil, nil, nil, nil, nil, nil, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Upsert(context.Background(), []models.OrderBookAsset{{Symbol: "XAUUSD", OrdersBuyPct: &buy}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
