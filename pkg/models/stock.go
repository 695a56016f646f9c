// Package models defines the core data structures shared across MarketBrief.
package models

import "time"

// Stock represents basic listed-company information.
type Stock struct {
	Ticker   string `json:"ticker"`   // e.g., "AAPL"
	CIK      string `json:"cik"`      // 10-digit zero-padded SEC CIK, e.g., "0000320193"
	Name     string `json:"name"`     // e.g., "Apple Inc."
	Exchange string `json:"exchange"` // e.g., "NASDAQ"
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	AdjClose  float64   `json:"adj_close,omitempty"`
}

// Quote represents a delayed or real-time stock quote.
type Quote struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	LastPrice  float64   `json:"last_price"`
	Change     float64   `json:"change"`
	ChangePct  float64   `json:"change_pct"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	PrevClose  float64   `json:"prev_close"`
	Volume     int64     `json:"volume"`
	WeekHigh52 float64   `json:"week_high_52"`
	WeekLow52  float64   `json:"week_low_52"`
	MarketCap  float64   `json:"market_cap,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
