package models

// Quote is a point-in-time snapshot for a single watchlist symbol.
// Pre and post market fields are nil outside their sessions.
type Quote struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	PreviousClose     float64  `json:"previous_close"`
	Open              float64  `json:"open"`
	DayHigh           float64  `json:"day_high"`
	DayLow            float64  `json:"day_low"`
	Change            float64  `json:"change"`
	ChangePercent     float64  `json:"change_percent"`
	Volume            int64    `json:"volume"`
	AvgVolume         int64    `json:"avg_volume"`
	VolumeRatio       float64  `json:"volume_ratio"`
	MarketCap         int64    `json:"market_cap"`
	FiftyTwoWeekHigh  float64  `json:"fifty_two_week_high"`
	FiftyTwoWeekLow   float64  `json:"fifty_two_week_low"`
	Currency          string   `json:"currency"`
	IsCrypto          bool     `json:"is_crypto"`
	PreMarketPrice    *float64 `json:"pre_market_price,omitempty"`
	PreMarketPercent  *float64 `json:"pre_market_percent,omitempty"`
	PostMarketPrice   *float64 `json:"post_market_price,omitempty"`
	PostMarketPercent *float64 `json:"post_market_percent,omitempty"`
}

type PreMarketQuote struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	PreMarketPrice  float64 `json:"pre_market_price"`
	PreMarketChange float64 `json:"pre_market_change"`
	PreviousClose   float64 `json:"previous_close"`
}

type PostMarketQuote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	ClosePrice       float64 `json:"close_price"`
	CloseChange      float64 `json:"close_change"`
	PostMarketPrice  float64 `json:"post_market_price"`
	PostMarketChange float64 `json:"post_market_change"`
}

// WeeklyPerformance summarizes one symbol over a trailing window of
// daily closes. DailyChanges holds day-over-day percentage moves and is
// always one element shorter than Closes.
type WeeklyPerformance struct {
	Symbol            string    `json:"symbol"`
	StartPrice        float64   `json:"start_price"`
	EndPrice          float64   `json:"end_price"`
	WeekChange        float64   `json:"week_change"`
	WeekChangePercent float64   `json:"week_change_percent"`
	WeekHigh          float64   `json:"week_high"`
	WeekLow           float64   `json:"week_low"`
	Closes            []float64 `json:"closes"`
	DailyChanges      []float64 `json:"daily_changes"`
	TotalVolume       int64     `json:"total_volume"`
}

type EarningsEvent struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type DividendEvent struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	ExDate string  `json:"ex_date"`
	Amount float64 `json:"amount"`
	Yield  float64 `json:"yield"`
}

type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

type FutureQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

type SectorPerformance struct {
	Sector      string  `json:"sector"`
	AvgChange   float64 `json:"avg_change"`
	SymbolCount int     `json:"symbol_count"`
	BestSymbol  string  `json:"best_symbol"`
	BestChange  float64 `json:"best_change"`
	WorstSymbol string  `json:"worst_symbol"`
	WorstChange float64 `json:"worst_change"`
}
