package models

import "time"

// DailyBar is one end-of-day price record for an instrument. Day is a UTC
// midnight timestamp; AdjClose is the dividend/split adjusted close used by
// the backtest, Close the raw close kept for reference.
type DailyBar struct {
	Symbol   string    `json:"symbol"`
	Day      time.Time `json:"day"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
	Source   string    `json:"source"`
}

// Quote is a single live price observation from a market stream.
type Quote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

// BarEvent is the wire form a finished daily bar takes on the ingest topic.
type BarEvent struct {
	Symbol   string  `json:"symbol"`
	Day      string  `json:"day"` // YYYY-MM-DD
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Volume   float64 `json:"volume"`
	Source   string  `json:"source"`
	EventID  string  `json:"event_id"`
}
