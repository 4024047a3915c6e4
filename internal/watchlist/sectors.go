package watchlist

// sectorMap assigns common watchlist tickers to sectors for the report
// breakdown. Unknown symbols map to "".
var sectorMap = map[string]string{
	"AAPL": "Technology",
	"MSFT": "Technology",
	"NVDA": "Technology",
	"AMD":  "Technology",
	"INTC": "Technology",
	"AVGO": "Technology",
	"CRM":  "Technology",
	"ORCL": "Technology",

	"GOOG": "Communication Services",
	"META": "Communication Services",
	"NFLX": "Communication Services",
	"DIS":  "Communication Services",
	"T":    "Communication Services",

	"AMZN": "Consumer Discretionary",
	"TSLA": "Consumer Discretionary",
	"HD":   "Consumer Discretionary",
	"NKE":  "Consumer Discretionary",
	"MCD":  "Consumer Discretionary",

	"JPM":   "Financials",
	"BAC":   "Financials",
	"GS":    "Financials",
	"V":     "Financials",
	"MA":    "Financials",
	"BRK-B": "Financials",

	"XOM": "Energy",
	"CVX": "Energy",
	"COP": "Energy",

	"JNJ":  "Healthcare",
	"PFE":  "Healthcare",
	"UNH":  "Healthcare",
	"LLY":  "Healthcare",
	"ABBV": "Healthcare",

	"PG":   "Consumer Staples",
	"KO":   "Consumer Staples",
	"PEP":  "Consumer Staples",
	"WMT":  "Consumer Staples",
	"COST": "Consumer Staples",

	"CAT": "Industrials",
	"BA":  "Industrials",
	"UPS": "Industrials",
	"HON": "Industrials",

	"LIN": "Materials",
	"NEE": "Utilities",
	"AMT": "Real Estate",

	"BTC-USD": "Crypto",
	"ETH-USD": "Crypto",
	"SOL-USD": "Crypto",
}

// SectorOf returns the sector for a watchlist symbol, or "" when the
// symbol is not mapped.
func SectorOf(symbol string) string {
	return sectorMap[symbol]
}
