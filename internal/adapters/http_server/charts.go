package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// charts renders the dataset aggregates as a self-contained ECharts page.
func (h *Handlers) charts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dv, err := h.Q.Dataset(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	ag, err := h.Q.Aggregates(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	page := components.NewPage()
	page.PageTitle = "Review Insights: " + dv.Info.Name
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		sentimentPie(ag.Sentiments),
		countBar("Ratings", ag.Ratings),
		countBar("Top topics", ag.Topics),
		countBar("Top problems", ag.Problems),
		countBar("Top suggestions", ag.Suggestions),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		log.Error().Err(err).Str("dataset", id).Msg("charts render failed")
	}
}

func sentimentPie(counts []domain.Count) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	items := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		items = append(items, opts.PieData{Name: c.Label, Value: c.N})
	}
	pie.AddSeries("sentiment", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "65%"}}),
	)
	return pie
}

func countBar(title string, counts []domain.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	labels := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Label)
		data = append(data, opts.BarData{Value: c.N})
	}
	bar.SetXAxis(labels).AddSeries("reviews", data)
	return bar
}
