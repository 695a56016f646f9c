package report

// briefTemplate is the HTML template for the market brief. It is
// embedded as a Go constant so the binary has no external file
// dependencies.
const briefTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }

  .quote-bar {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(140px, 1fr));
    gap: 8px;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
    margin-bottom: 16px;
  }
  .quote-item { text-align: center; }
  .quote-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .quote-item .value { font-size: 1rem; font-weight: 600; }

  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }

  .ratio-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(180px, 1fr));
    gap: 8px;
    margin: 10px 0 16px;
  }
  .ratio-card {
    background: var(--section-bg);
    padding: 8px 12px;
    border-radius: 6px;
    display: flex;
    justify-content: space-between;
  }
  .ratio-card .label { color: var(--muted); font-size: 0.85rem; }
  .ratio-card .value { font-weight: 600; }

  .chart-container { margin: 12px 0; overflow-x: auto; }
  .chart-container svg { max-width: 100%; height: auto; }

  .gauge-inline { display: flex; align-items: center; gap: 12px; }
  .gauge-inline svg { flex-shrink: 0; }

  .section { margin: 20px 0; }
  .ticker-section { page-break-inside: avoid; }

  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .section { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
    <p class="muted">{{.Author}}</p>
  </div>
</div>

{{range .Tickers}}
<div class="section ticker-section">
  <h2><span class="ticker-badge">{{.Ticker}}</span> {{.CompanyName}}{{if .Exchange}} <span class="muted">· {{.Exchange}}</span>{{end}}</h2>

  {{if .LatestPeriod}}
  <div class="quote-bar">
    <div class="quote-item"><div class="label">Period</div><div class="value">{{.LatestPeriod}}</div></div>
    <div class="quote-item"><div class="label">Revenue</div><div class="value">{{.Revenue}}</div></div>
    <div class="quote-item"><div class="label">Net Income</div><div class="value">{{.NetIncome}}</div></div>
    <div class="quote-item"><div class="label">Net Margin</div><div class="value">{{.NetMargin}}</div></div>
    <div class="quote-item"><div class="label">EPS</div><div class="value">{{.EPS}}</div></div>
    <div class="quote-item"><div class="label">Market Cap</div><div class="value">{{.MarketCap}}</div></div>
    <div class="quote-item"><div class="label">P/E</div><div class="value">{{.PE}}</div></div>
    <div class="quote-item"><div class="label">Altman Z</div><div class="value">{{.AltmanZ}}</div></div>
    <div class="quote-item"><div class="label">Piotroski F</div><div class="value">{{.PiotroskiF}}</div></div>
  </div>
  {{else}}
  <p class="muted">No financial records available.</p>
  {{end}}

  {{if .RevenueTrend}}
  <h3>Growth</h3>
  <div class="ratio-grid">
    <div class="ratio-card"><span class="label">Revenue QoQ</span><span class="value">{{.RevenueQoQ}}</span></div>
    <div class="ratio-card"><span class="label">Revenue YoY</span><span class="value">{{.RevenueYoY}}</span></div>
    <div class="ratio-card"><span class="label">Revenue Trend</span><span class="value">{{.RevenueTrend}}</span></div>
    <div class="ratio-card"><span class="label">Profitability</span><span class="value">{{.ProfitTrend}}</span></div>
  </div>
  {{end}}

  {{if .MetricRows}}
  <h3>Key Ratios</h3>
  <div class="ratio-grid">
    {{range .MetricRows}}
    <div class="ratio-card"><span class="label">{{.Label}}</span><span class="value">{{.Value}}</span></div>
    {{end}}
  </div>
  {{end}}

  {{if .RevenueChart}}
  <div class="chart-container">{{.RevenueChart}}</div>
  {{end}}

  {{if .SentimentLabel}}
  <h3>Sentiment</h3>
  <div class="gauge-inline">
    {{.SentimentGauge}}
    <p>{{.SentimentLabel}} ({{.SentimentScore}} across {{.ArticleCount}} articles)</p>
  </div>
  {{end}}

  {{if .NextEarnings}}
  <p><strong>Next earnings:</strong> {{.NextEarnings}}</p>
  {{end}}

  {{if .Headlines}}
  <h3>Headlines</h3>
  <table>
    <thead><tr><th>Headline</th><th>Source</th><th>Sentiment</th></tr></thead>
    <tbody>
    {{range .Headlines}}
    <tr>
      <td>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
      <td>{{.Source}}</td>
      <td>{{.Sentiment}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</div>
{{end}}

<div class="footer">
  <p><strong>Disclaimer:</strong> Data from SEC EDGAR, Yahoo Finance, and public RSS feeds,
  for informational purposes only. This brief does not constitute financial advice.</p>
  <p>Generated {{.GeneratedAt}}</p>
</div>

</body>
</html>`
