package report

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var dashboardFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
	"pct":  func(x float64) float64 { return x * 100 },
}

// WriteHTML renders the dashboard for one or more run summaries to path.
func WriteHTML(path string, summaries []Summary) error {
	t, err := template.New("dashboard").Funcs(dashboardFuncs).Parse(dashboardTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, summaries); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const dashboardTemplate = `<html>
<head>
  <title>Backtest Dashboard - Calendar Spread Strategy</title>
  <style>
    body { font-family: Arial, sans-serif; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { padding: 8px; text-align: left; border: 1px solid #ddd; }
    th { background-color: #f2f2f2; }
  </style>
</head>
<body>
  <h1>Backtest Results: Calendar Spread Strategy</h1>

  <h2>Portfolio Summary</h2>
  <table>
    <tr><th>Instrument</th><th>Period</th><th>Final Balance</th><th>Net P/L</th><th>Buy &amp; Hold P/L</th><th>Trades</th><th>Win Rate</th></tr>
{{- range .}}
    <tr>
      <td>{{.Instrument}}</td>
      <td>{{date .Start}} to {{date .End}}</td>
      <td>${{printf "%.2f" .EndBalance}}</td>
      <td>${{printf "%.2f" .NetPL}}</td>
      <td>${{printf "%.2f" .BuyHoldPL}}</td>
      <td>{{.Trades}}</td>
      <td>{{printf "%.1f" (pct .WinRate)}}%</td>
    </tr>
{{- end}}
  </table>

{{- range .}}
  <h2>{{.Instrument}} Trades</h2>
  <table>
    <tr><th>Entry</th><th>Entry Price</th><th>Exit</th><th>Exit Price</th><th>Shares</th><th>P/L</th><th>Reason</th><th>Direction</th></tr>
{{- range .Ledger}}
    <tr>
      <td>{{date .EntryDate}}</td>
      <td>{{printf "%.2f" .EntryPrice}}</td>
      <td>{{date .ExitDate}}</td>
      <td>{{printf "%.2f" .ExitPrice}}</td>
      <td>{{printf "%.4f" .Shares}}</td>
      <td>{{printf "%.2f" .ProfitLoss}}</td>
      <td>{{.Reason}}</td>
      <td>{{.Direction}}</td>
    </tr>
{{- end}}
{{- if .Open}}
    <tr>
      <td>{{date .Open.EntryDate}}</td>
      <td>{{printf "%.2f" .Open.EntryPrice}}</td>
      <td>(open)</td>
      <td>{{printf "%.2f" .Open.LatestPrice}}</td>
      <td>{{printf "%.4f" .Open.Shares}}</td>
      <td>{{printf "%.2f" .Open.ProfitLoss}}</td>
      <td>OPEN</td>
      <td>{{.Open.Direction}}</td>
    </tr>
{{- end}}
  </table>
{{- end}}
</body>
</html>
`
