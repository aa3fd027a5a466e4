package scatter

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/model"
)

type HTMLOptions struct {
	Title    string
	Subtitle string
	// Summary is shown above the charts when set.
	Summary       *model.Summary
	SelectionText string
}

var statsTemplate = template.Must(template.New("stats").Parse(`<div class="stats">
  <dl>
{{- range . }}
    <dt>{{ .Label }}</dt><dd>{{ .Value }}</dd>
{{- end }}
  </dl>
</div>
`))

var selectionTemplate = template.Must(template.New("selection").Parse(`<p class="selection-count">{{ . }}</p>
`))

type stat struct {
	Label string
	Value string
}

// RenderHTML writes a standalone page with the summary stats, the commits scatterplot and the line
// breakdown.
func RenderHTML(w io.Writer, frame *Frame, entries []breakdown.Entry, o HTMLOptions) error {
	if o.Title == "" {
		o.Title = "Commits by time of day"
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(newScatterChart(frame, o), newBreakdownChart(entries))

	var out bytes.Buffer
	err := page.Render(&out)
	if err != nil {
		return err
	}

	var header bytes.Buffer
	if o.Summary != nil {
		err = statsTemplate.Execute(&header, summaryStats(o.Summary))
		if err != nil {
			return err
		}
	}
	if o.SelectionText != "" {
		err = selectionTemplate.Execute(&header, o.SelectionText)
		if err != nil {
			return err
		}
	}

	html := out.String()
	if header.Len() > 0 {
		html = strings.Replace(html, "<body>", "<body>\n"+header.String(), 1)
	}

	_, err = io.WriteString(w, html)
	return err
}

func summaryStats(s *model.Summary) []stat {
	return []stat{
		{"COMMITS", humanize.Comma(int64(s.Commits))},
		{"FILES", humanize.Comma(int64(s.Files))},
		{"TOTAL LOC", humanize.Comma(int64(s.TotalLOC))},
		{"MAX DEPTH", statValue(s.MaxDepth)},
		{"LONGEST LINE", statValue(s.LongestLine)},
		{"MAX LINES", statValue(s.MaxLines)},
	}
}

// statValue shows maxima over no valid values as "-".
func statValue(v float64) string {
	if !model.Known(v) {
		return "-"
	}
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

func newScatterChart(frame *Frame, o HTMLOptions) *charts.Scatter {
	width := px(frame.Layout.Width)
	height := px(frame.Layout.Height)

	scatter := charts.NewScatter()

	dots := frame.Visible()
	if len(dots) == 0 {
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
			charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: "No commits"}),
		)
		return scatter
	}

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Time of day", Type: "value", Min: 0, Max: 24}),
	)

	var day, night []*Dot
	for _, d := range dots {
		if d.Color == DayColor {
			day = append(day, d)
		} else {
			night = append(night, d)
		}
	}

	scatter.AddSeries("Day", toScatterData(day), charts.WithItemStyleOpts(opts.ItemStyle{Color: DayColor}))
	scatter.AddSeries("Night", toScatterData(night), charts.WithItemStyleOpts(opts.ItemStyle{Color: NightColor}))

	return scatter
}

func toScatterData(dots []*Dot) []opts.ScatterData {
	return lo.Map(dots, func(d *Dot, _ int) opts.ScatterData {
		c := d.Commit
		return opts.ScatterData{
			Name:       c.ShortID(),
			Value:      []any{c.DateTime.UnixMilli(), math.Round(c.HourFrac*100) / 100, c.TotalLines},
			SymbolSize: int(math.Round(d.R * 2)),
		}
	})
}

func newBreakdownChart(entries []breakdown.Entry) *charts.Bar {
	bar := charts.NewBar()

	if len(entries) == 0 {
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "300px"}),
			charts.WithTitleOpts(opts.Title{Title: "Lines by type", Subtitle: "No breakdown"}),
		)
		return bar
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: "Lines by type"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	bar.SetXAxis(lo.Map(entries, func(e breakdown.Entry, _ int) string { return e.Label }))
	bar.AddSeries("Lines", lo.Map(entries, func(e breakdown.Entry, _ int) opts.BarData {
		return opts.BarData{Name: e.Text(), Value: e.Count}
	}))

	return bar
}

func px(v float64) string {
	return fmt.Sprintf("%vpx", v)
}
