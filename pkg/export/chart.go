package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/brigade/core/dispatch/logging"
)

// WriteHTMLChart renders a bar chart of prepared and requeued dishes per
// batch, plus the units drawn from the backup stock.
func WriteHTMLChart(w io.Writer, recs []logging.LogRecord) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Dispatch batches"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Batch"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Dishes / units"}),
	)

	xAxis := make([]string, 0, len(recs))
	var prepared, failed, units []opts.BarData
	for _, r := range recs {
		xAxis = append(xAxis, r.Timestamp.Format("2006-01-02 15:04:05"))
		prepared = append(prepared, opts.BarData{Value: len(r.Prepared)})
		failed = append(failed, opts.BarData{Value: len(r.Failed)})
		units = append(units, opts.BarData{Value: unitsTransferred(r)})
	}
	bar.SetXAxis(xAxis).
		AddSeries("Prepared", prepared).
		AddSeries("Requeued", failed).
		AddSeries("Backup units", units)
	return bar.Render(w)
}

func unitsTransferred(r logging.LogRecord) int {
	total := 0
	for _, t := range r.Replenishments {
		if t.Succeeded {
			total += t.Quantity
		}
	}
	return total
}
