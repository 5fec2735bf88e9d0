package presentation

import (
	"io"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	humanize "github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	TrendTitle   = "Total Passenger Numbers Over Time"
	CountryTitle = "Top 5 Departure Countries by Route Type"

	chartWidth  = 900
	chartHeight = 420
)

var (
	trendPalette = []string{"#22223b", "#4a4e69", "#9a8c98", "#c9ada7", "#f2e9e4"}
	typePalette  = []string{"#4a4e69", "#9a8c98"}
)

// LegendEntry pairs a series name with the color it is drawn in.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// TypeLegend assigns each route type its bar color, cycling the palette.
func TypeLegend(types []string) []LegendEntry {
	out := make([]LegendEntry, 0, len(types))
	for i, t := range types {
		out = append(out, LegendEntry{Label: t, Color: typePalette[i%len(typePalette)]})
	}
	return out
}

func formatPassengers(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

// TrendChart draws yearly totals as a line chart.
func TrendChart(trend []analytics.YearTotal, rp chart.RendererProvider, w io.Writer) error {
	if len(trend) == 0 {
		return domain.ErrNoData
	}

	xs := make([]float64, 0, len(trend))
	ys := make([]float64, 0, len(trend))
	var maxY float64
	for _, t := range trend {
		xs = append(xs, float64(t.Year))
		ys = append(ys, float64(t.Passengers))
		maxY = max(maxY, float64(t.Passengers))
	}

	ticks := trendTicks(trend)
	minX, maxX := ticks[0].Value, ticks[len(ticks)-1].Value
	if maxY == 0 {
		maxY = 1
	} else {
		maxY *= 1.1
	}

	line := trendPalette[1]
	ch := chart.Chart{
		Title:      TrendTitle,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Year",
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "Passengers",
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY},
			ValueFormatter: formatPassengers,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Passengers",
				Style: chart.Style{
					StrokeColor: color(line),
					StrokeWidth: 3,
					DotColor:    color(trendPalette[0]),
					DotWidth:    5,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return ch.Render(rp, w)
}

// trendTicks labels every year. The axis range follows the outermost ticks,
// so a single year gets unlabeled ticks on either side to keep a non-empty
// range.
func trendTicks(trend []analytics.YearTotal) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(trend)+2)
	if len(trend) == 1 {
		ticks = append(ticks, chart.Tick{Value: float64(trend[0].Year - 1)})
	}
	for _, t := range trend {
		ticks = append(ticks, chart.Tick{Value: float64(t.Year), Label: strconv.Itoa(t.Year)})
	}
	if len(trend) == 1 {
		ticks = append(ticks, chart.Tick{Value: float64(trend[0].Year + 1)})
	}
	return ticks
}

// CountryChart draws one bar per (country, type), grouped by country. Groups
// are separated by a transparent spacer bar.
func CountryChart(table analytics.CountryTypeTable, rp chart.RendererProvider, w io.Writer) error {
	if len(table.Rows) == 0 || len(table.Types) == 0 {
		return domain.ErrNoData
	}

	legend := TypeLegend(table.Types)
	bars := make([]chart.Value, 0, len(table.Rows)*(len(table.Types)+1))
	var maxY float64
	for i, row := range table.Rows {
		if i > 0 {
			bars = append(bars, chart.Value{
				Value: 0,
				Style: chart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent},
			})
		}
		for j, v := range row.Values {
			label := ""
			if j == 0 {
				label = row.Country
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: float64(v),
				Style: chart.Style{
					FillColor:   color(legend[j].Color),
					StrokeColor: color(legend[j].Color),
					StrokeWidth: 1,
				},
			})
			maxY = max(maxY, float64(v))
		}
	}
	if maxY == 0 {
		maxY = 1
	} else {
		maxY *= 1.1
	}

	ch := chart.BarChart{
		Title:      CountryTitle,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 40, Right: 20, Bottom: 40}},
		BarWidth:   40,
		BarSpacing: 4,
		// Country names are wider than a bar and must not be split per word.
		XAxis: chart.Style{TextWrap: chart.TextWrapNone},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY},
			ValueFormatter: formatPassengers,
		},
		Bars: bars,
	}
	return ch.Render(rp, w)
}
