package report

const baseStyle = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; color: #1a1a2e; margin: 0; padding: 16px; background: #f5f6fa; }
.container { max-width: 680px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px; }
h1 { font-size: 20px; margin: 0 0 4px; }
h2 { font-size: 15px; margin: 24px 0 8px; border-bottom: 1px solid #e0e0e8; padding-bottom: 4px; }
.date { color: #6b7080; font-size: 13px; margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
th { text-align: left; color: #6b7080; font-weight: 600; padding: 4px 8px; border-bottom: 1px solid #e0e0e8; }
td { padding: 4px 8px; border-bottom: 1px solid #f0f0f4; }
.up { color: #16a34a; }
.down { color: #dc2626; }
.flat { color: #6b7080; }
.spark { font-family: monospace; letter-spacing: 1px; }
.digest { background: #f8f9fc; border-radius: 6px; padding: 12px 16px; font-size: 13px; }
.digest .voice { margin-bottom: 8px; }
.digest .name { font-weight: 600; }
.news li { font-size: 13px; margin-bottom: 4px; }
.footer { color: #9aa0ae; font-size: 11px; margin-top: 24px; }
</style>
</head>
<body>
<div class="container">
`

const preMarketBody = `<h1>Pre-Market Briefing</h1>
<div class="date">{{date .Date}}</div>
{{if .Futures}}
<h2>Futures</h2>
<table>
<tr><th>Contract</th><th>Price</th><th>Change</th></tr>
{{range futures .Futures}}<tr><td>{{.Name}}</td><td>{{price .Price}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td></tr>
{{end}}</table>
{{end}}
{{if .Premarket}}
<h2>Pre-Market Movers</h2>
<table>
<tr><th>Symbol</th><th>Prev Close</th><th>Pre-Market</th><th>Change</th></tr>
{{range premarket .Premarket}}<tr><td>{{.Symbol}}</td><td>{{price .PreviousClose}}</td><td>{{price .PreMarketPrice}}</td><td class="{{pctClass .PreMarketChange}}">{{pct .PreMarketChange}}</td></tr>
{{end}}</table>
{{end}}
{{if .Earnings}}
<h2>Upcoming Earnings</h2>
<table>
<tr><th>Symbol</th><th>Company</th><th>Date</th><th>Time</th></tr>
{{range .Earnings}}<tr><td>{{.Symbol}}</td><td>{{.Name}}</td><td>{{.Date}}</td><td>{{.Time}}</td></tr>
{{end}}</table>
{{end}}
{{if .Dividends}}
<h2>Ex-Dividend Dates</h2>
<table>
<tr><th>Symbol</th><th>Ex-Date</th><th>Amount</th><th>Yield</th></tr>
{{range .Dividends}}<tr><td>{{.Symbol}}</td><td>{{.ExDate}}</td><td>{{price .Amount}}</td><td>{{pct .Yield}}</td></tr>
{{end}}</table>
{{end}}
{{if .MarketNews}}
<h2>Market Headlines</h2>
<ul class="news">
{{range .MarketNews}}<li><a href="{{.Link}}">{{.Title}}</a> <span class="flat">({{.Source}})</span></li>
{{end}}</ul>
{{end}}
{{if .Trends}}
<h2>Search Interest</h2>
<table>
<tr><th>Symbol</th><th>Interest</th><th>7d Avg</th><th>Change</th><th>Direction</th></tr>
{{range trends .Trends}}<tr><td>{{.Symbol}}</td><td>{{.Interest}}</td><td>{{price .WeekAvg}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td><td>{{.Direction}}</td></tr>
{{end}}</table>
{{end}}
{{if .Digest}}
<h2>Signal Digest</h2>
<div class="digest">
{{range .Digest.Voices}}<div class="voice"><span class="name">{{.Name}}</span>: {{.Insight}}</div>
{{end}}<div><strong>Key risk:</strong> {{.Digest.Synthesis.KeyRiskOrConfirmed}}</div>
<div><strong>Theme:</strong> {{.Digest.Synthesis.KeyThemeOrWeakened}}</div>
{{if .Digest.Synthesis.InvalidationOrQuestion}}<div><strong>Invalidation:</strong> {{.Digest.Synthesis.InvalidationOrQuestion}}</div>{{end}}
{{if .Digest.CrossSignals}}<ul>{{range .Digest.CrossSignals}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{if .News}}
<h2>Headlines</h2>
<ul class="news">
{{range newsList .News}}<li>[{{.Symbol}}] <a href="{{.Link}}">{{.Title}}</a> <span class="flat">({{.Source}})</span></li>
{{end}}</ul>
{{end}}
<div class="footer">Generated by MarketBrief. Data may be delayed.</div>
</div>
</body>
</html>
`

const postCloseBody = `<h1>Market Close Report</h1>
<div class="date">{{date .Date}}</div>
{{if .Indices}}
<h2>Indices</h2>
<table>
<tr><th>Index</th><th>Close</th><th>Change</th></tr>
{{range indices .Indices}}<tr><td>{{.Name}}</td><td>{{price .Price}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td></tr>
{{end}}</table>
{{end}}
{{if .Gainers}}
<h2>Top Gainers</h2>
<table>
<tr><th>Symbol</th><th>Price</th><th>Change</th><th>Vol Ratio</th></tr>
{{range .Gainers}}<tr><td>{{.Symbol}}</td><td>{{price .Price}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td><td>{{printf "%.1fx" .VolumeRatio}}</td></tr>
{{end}}</table>
{{end}}
{{if .Losers}}
<h2>Top Losers</h2>
<table>
<tr><th>Symbol</th><th>Price</th><th>Change</th><th>Vol Ratio</th></tr>
{{range .Losers}}<tr><td>{{.Symbol}}</td><td>{{price .Price}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td><td>{{printf "%.1fx" .VolumeRatio}}</td></tr>
{{end}}</table>
{{end}}
{{if .Sectors}}
<h2>Sector Breakdown</h2>
<table>
<tr><th>Sector</th><th>Avg Change</th><th>Best</th><th>Worst</th></tr>
{{range .Sectors}}<tr><td>{{.Sector}}</td><td class="{{pctClass .AvgChange}}">{{pct .AvgChange}}</td><td>{{.BestSymbol}}</td><td>{{.WorstSymbol}}</td></tr>
{{end}}</table>
{{end}}
{{if .Postmarket}}
<h2>After Hours</h2>
<table>
<tr><th>Symbol</th><th>Close</th><th>Day Change</th><th>After Hours</th><th>AH Change</th></tr>
{{range postmarket .Postmarket}}<tr><td>{{.Symbol}}</td><td>{{price .ClosePrice}}</td><td class="{{pctClass .CloseChange}}">{{pct .CloseChange}}</td><td>{{price .PostMarketPrice}}</td><td class="{{pctClass .PostMarketChange}}">{{pct .PostMarketChange}}</td></tr>
{{end}}</table>
{{end}}
{{if .Quotes}}
<h2>Watchlist</h2>
<table>
<tr><th>Symbol</th><th>Price</th><th>Change</th><th>Volume</th><th>Vol Ratio</th></tr>
{{range quotes .Quotes}}<tr><td>{{.Symbol}}</td><td>{{price .Price}}</td><td class="{{pctClass .ChangePercent}}">{{pct .ChangePercent}}</td><td>{{volume .Volume}}</td><td>{{printf "%.1fx" .VolumeRatio}}</td></tr>
{{end}}</table>
{{end}}
{{if .Digest}}
<h2>Signal Digest</h2>
<div class="digest">
{{range .Digest.Voices}}<div class="voice"><span class="name">{{.Name}}</span>: {{.Insight}}</div>
{{end}}<div><strong>Key risk:</strong> {{.Digest.Synthesis.KeyRiskOrConfirmed}}</div>
<div><strong>Theme:</strong> {{.Digest.Synthesis.KeyThemeOrWeakened}}</div>
{{if .Digest.Synthesis.InvalidationOrQuestion}}<div><strong>Invalidation:</strong> {{.Digest.Synthesis.InvalidationOrQuestion}}</div>{{end}}
{{if .Digest.CrossSignals}}<ul>{{range .Digest.CrossSignals}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{if .News}}
<h2>Headlines</h2>
<ul class="news">
{{range newsList .News}}<li>[{{.Symbol}}] <a href="{{.Link}}">{{.Title}}</a> <span class="flat">({{.Source}})</span></li>
{{end}}</ul>
{{end}}
<div class="footer">Generated by MarketBrief. Data may be delayed.</div>
</div>
</body>
</html>
`

const weeklyBody = `<h1>Weekly Summary</h1>
<div class="date">Week ending {{date .Date}}</div>
{{if .Weekly}}
<h2>Weekly Performance</h2>
<table>
<tr><th>Symbol</th><th>Start</th><th>End</th><th>Change</th><th>Range</th><th>Trend</th></tr>
{{range weekly .Weekly}}<tr><td>{{.Symbol}}</td><td>{{price .StartPrice}}</td><td>{{price .EndPrice}}</td><td class="{{pctClass .WeekChangePercent}}">{{pct .WeekChangePercent}}</td><td>{{price .WeekLow}} - {{price .WeekHigh}}</td><td class="spark">{{sparkline .Closes}}</td></tr>
{{end}}</table>
{{end}}
{{if .Sectors}}
<h2>Sector Breakdown</h2>
<table>
<tr><th>Sector</th><th>Avg Change</th><th>Best</th><th>Worst</th></tr>
{{range .Sectors}}<tr><td>{{.Sector}}</td><td class="{{pctClass .AvgChange}}">{{pct .AvgChange}}</td><td>{{.BestSymbol}}</td><td>{{.WorstSymbol}}</td></tr>
{{end}}</table>
{{end}}
{{if .Earnings}}
<h2>Earnings Next Week</h2>
<table>
<tr><th>Symbol</th><th>Company</th><th>Date</th><th>Time</th></tr>
{{range .Earnings}}<tr><td>{{.Symbol}}</td><td>{{.Name}}</td><td>{{.Date}}</td><td>{{.Time}}</td></tr>
{{end}}</table>
{{end}}
{{if .News}}
<h2>Headlines</h2>
<ul class="news">
{{range newsList .News}}<li>[{{.Symbol}}] <a href="{{.Link}}">{{.Title}}</a> <span class="flat">({{.Source}})</span></li>
{{end}}</ul>
{{end}}
<div class="footer">Generated by MarketBrief. Data may be delayed.</div>
</div>
</body>
</html>
`
