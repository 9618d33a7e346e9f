package export

import (
	"html/template"
	"io"
	"strconv"

	"rusunawa-recon-svc/internal/models/response"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": formatFloat,
	"pct":   func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
}).Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>Laporan Rusunawa {{.Report.Daily.Date}}</title>
<style>
body{font-family:sans-serif;margin:24px;color:#222}
h1{font-size:20px}h2{font-size:16px;margin-top:24px}
table{width:100%;border-collapse:collapse;margin-bottom:16px}
th,td{border:1px solid #ddd;padding:6px;text-align:right}
th{text-align:left;background:#f5f5f5}
td.label{text-align:left}
.warn{color:#a40000}
@media print{section{page-break-inside:avoid}}
</style>
</head>
<body>
<h1>Laporan Hunian &amp; Pendapatan Rusunawa</h1>
<p>Generated {{.Report.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
{{if .Errors}}<section class="warn"><h2>Incomplete sources</h2><ul>{{range .Errors}}<li>{{.Label}}: {{.Value}}</li>{{end}}</ul></section>{{end}}
<section><h2>Summary</h2><table><tbody>
{{range .Summary}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</tbody></table></section>
<section><h2>Rooms</h2><table>
<thead><tr><th>Room</th><th>Classification</th><th>Capacity</th><th>Occupants</th><th>Status</th></tr></thead><tbody>
{{range .Report.Rooms}}<tr><td class="label">{{if .Name}}{{.Name}}{{else}}{{.RoomID}}{{end}}</td><td class="label">{{.Classification}}</td><td>{{.Capacity}}</td><td>{{.OccupantCount}}</td><td{{if .Anomaly}} class="warn"{{end}}>{{.Status}}</td></tr>
{{end}}</tbody></table></section>
<section><h2>Periods</h2><table>
<thead><tr><th>Period</th><th>Count</th><th>Occupancy</th><th>Status</th></tr></thead><tbody>
{{range .Report.Periods}}<tr><td class="label">{{.Period}}</td><td>{{.Count}}</td><td>{{pct .Percentage}}</td><td>{{.Status}}</td></tr>
{{end}}</tbody></table></section>
{{range .Distributions}}{{if .Points}}<section><h2>{{.Name}}</h2><table><tbody>
{{range .Points}}<tr><td class="label">{{.Name}}</td><td>{{.Value}}</td><td>{{pct .Percentage}}</td></tr>
{{end}}</tbody></table></section>
{{end}}{{end}}
{{with .Report.Anomalies}}{{if or .OverCapacityRooms .DuplicateBookings .RevenueMismatch}}<section class="warn"><h2>Anomalies</h2><ul>
{{range .OverCapacityRooms}}<li>Room {{.RoomID}}: {{.Anomaly}}</li>{{end}}
{{range .DuplicateBookings}}<li>Tenant {{.TenantID}} holds {{.Count}} concurrent bookings</li>{{end}}
{{with .RevenueMismatch}}<li>Revenue {{.Year}}-{{.Month}}: payments {{money .PaymentRevenue}} vs invoices {{money .InvoiceRevenue}}, using {{.Resolved}}</li>{{end}}
</ul></section>{{end}}{{end}}
</body>
</html>
`))

type chartSection struct {
	Name   string
	Points []ChartPoint
}

type htmlView struct {
	Report        response.AggregateReport
	Summary       []metricRow
	Distributions []chartSection
	Errors        []metricRow
}

// RenderHTML writes a standalone printable HTML document of the report
func RenderHTML(w io.Writer, report response.AggregateReport) error {
	view := htmlView{Report: report, Summary: summaryRows(report)}
	for _, section := range distributionSections(report.Distributions) {
		view.Distributions = append(view.Distributions, chartSection{Name: section.Name, Points: ChartSeries(section.Dist)})
	}
	for _, key := range sortedKeys(report.Errors) {
		view.Errors = append(view.Errors, metricRow{Label: key, Value: report.Errors[key]})
	}
	return reportTemplate.Execute(w, view)
}
