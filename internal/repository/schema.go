package repository

import "fmt"

// Schema returns idempotent DDL for every table the stores use.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.cot_scans (
    id          String,
    report_date String,
    scraped_at  DateTime64(3, 'UTC')
) ENGINE = MergeTree ORDER BY (scraped_at, id)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.cot_data (
    scan_id                 String,
    category                LowCardinality(String),
    code                    String,
    name                    String,
    report_date             String,
    contract                String,
    contract_unit           String,
    open_interest           Nullable(Int64),
    change_in_open_interest Nullable(Int64),
    nc_long                 Nullable(Int64),
    nc_short                Nullable(Int64),
    nc_spreads              Nullable(Int64),
    nc_net                  Nullable(Int64),
    chg_long                Nullable(Int64),
    chg_short               Nullable(Int64),
    chg_spreads             Nullable(Int64),
    pct_long                Nullable(Float64),
    pct_short               Nullable(Float64),
    pct_spreads             Nullable(Float64),
    unfulfilled_calls       Nullable(Float64),
    position                UInt32
) ENGINE = MergeTree ORDER BY (scan_id, category, position)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sentiment_scans (
    id            String,
    source        String,
    total_symbols UInt32,
    scraped_at    DateTime64(3, 'UTC')
) ENGINE = MergeTree ORDER BY (scraped_at, id)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sentiment_data (
    scan_id   String,
    symbol    String,
    short_pct Float64,
    long_pct  Float64,
    position  UInt32
) ENGINE = MergeTree ORDER BY (scan_id, position)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.fastbull_orderbook (
    symbol                     String,
    orders_price               Nullable(String),
    orders_buy_pct             Nullable(Float64),
    orders_sell_pct            Nullable(Float64),
    positions_price            Nullable(String),
    positions_long_pct         Nullable(Float64),
    positions_short_pct        Nullable(Float64),
    positions_long_profit_pct  Nullable(Float64),
    positions_long_loss_pct    Nullable(Float64),
    positions_short_profit_pct Nullable(Float64),
    positions_short_loss_pct   Nullable(Float64),
    scraped_at                 Nullable(DateTime64(3, 'UTC')),
    updated_at                 DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree(updated_at) ORDER BY symbol`, database),
	}
}
