package server

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Monte Carlo Simulation of Stock Prices</title>
<style>
body { font-family: sans-serif; margin: 2em; }
form label { margin-right: .5em; }
form > * { margin-right: 1em; }
.error { color: #b00020; border: 1px solid #b00020; padding: 1em; max-width: 960px; }
.summary { white-space: pre-line; }
</style>
</head>
<body>
<h1>Monte Carlo Simulation of Stock Prices</h1>
<form method="get" action="/">
  <label for="ticker">Stock:</label>
  <select id="ticker" name="ticker">
  {{- range .Tickers }}
    <option value="{{ .Symbol }}"{{ if eq .Symbol $.Request.Ticker }} selected{{ end }}>{{ .Label }}</option>
  {{- end }}
  </select>
  <input type="date" name="start" value="{{ .StartDate }}" min="{{ .MinDate }}" max="{{ .MaxDate }}">
  <label for="n">Number of Simulations</label>
  <input id="n" type="number" name="n" value="{{ .Request.NumSimulations }}" min="{{ .MinSimulations }}" max="{{ .MaxSimulations }}" step="{{ .Step }}">
  <button type="submit">Simulate</button>
</form>
{{ if .Error }}
<p class="error">{{ .Error }}</p>
{{ else }}
<p>Volatility {{ printf "%.4f" .Params.Volatility }} • Expected return {{ printf "%.4f" .Params.ExpectedReturn }}</p>
<img src="{{ .ChartDataURI }}" alt="Monte Carlo simulation of {{ .Request.Ticker }} stock price">
<p class="summary">{{ .Summary }}</p>
{{ if .Commentary }}<p class="summary">{{ .Commentary }}</p>{{ end }}
{{ end }}
</body>
</html>
`))
