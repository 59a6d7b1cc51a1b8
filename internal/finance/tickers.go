package finance

// Ticker is one entry of the stock picker.
type Ticker struct {
	Symbol string
	Label  string
}

// Tickers lists the stocks offered by the dashboard picker.
var Tickers = []Ticker{
	{Symbol: "NVDA", Label: "Nvidia (NVDA)"},
	{Symbol: "TSLA", Label: "Tesla (TSLA)"},
	{Symbol: "AAPL", Label: "Apple (AAPL)"},
	{Symbol: "MSFT", Label: "Microsoft (MSFT)"},
	{Symbol: "META", Label: "Meta (META)"},
	{Symbol: "AMZN", Label: "Amazon (AMZN)"},
	{Symbol: "GME", Label: "GameStop (GME)"},
}
