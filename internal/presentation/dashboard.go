package presentation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	"github.com/Domenick1991/flightroutes/internal/service/dataset"
	humanize "github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
)

const NoDataLabel = "No data"

// View is one request's slice of the dataset.
type View struct {
	Dataset   *domain.Dataset
	Options   analytics.Options
	Selection domain.Selection
	Rows      []domain.RouteRecord
	Query     url.Values
}

// ParseSelection reads repeated year and type parameters. A dimension that
// is absent selects everything, unless filtered=1 marks a submitted form in
// which case it selects nothing.
func ParseSelection(q url.Values, opts analytics.Options) (domain.Selection, error) {
	submitted := q.Get("filtered") == "1"

	years := opts.Years
	if values, ok := q["year"]; ok || submitted {
		years = make([]int, 0, len(values))
		for _, v := range values {
			y, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return domain.Selection{}, fmt.Errorf("%w: year %q", domain.ErrInvalidSelection, v)
			}
			years = append(years, y)
		}
	}

	types := opts.Types
	if values, ok := q["type"]; ok || submitted {
		types = values
	}

	return domain.NewSelection(years, types), nil
}

type Summary struct {
	TotalPassengers  int64  `json:"total_passengers"`
	TotalRoutes      int    `json:"total_routes"`
	TopOriginCountry string `json:"top_origin_country"`
}

func (v *View) Summary() Summary {
	top, err := analytics.TopOriginCountry(v.Rows)
	if err != nil {
		top = NoDataLabel
	}
	return Summary{
		TotalPassengers:  analytics.TotalPassengers(v.Rows),
		TotalRoutes:      analytics.RouteCount(v.Rows),
		TopOriginCountry: top,
	}
}

type Builder struct {
	datasets     dataset.DatasetUseCase
	topRoutes    int
	topCountries int
}

func NewBuilder(datasets dataset.DatasetUseCase, topRoutes, topCountries int) *Builder {
	return &Builder{
		datasets:     datasets,
		topRoutes:    topRoutes,
		topCountries: topCountries,
	}
}

func (b *Builder) TopRoutes() int    { return b.topRoutes }
func (b *Builder) TopCountries() int { return b.topCountries }

// SelectFunc picks a selection once the dataset's options are known.
type SelectFunc func(opts analytics.Options) (domain.Selection, error)

// Select loads the dataset and applies the query's filter.
func (b *Builder) Select(ctx context.Context, q url.Values) (*View, error) {
	v, err := b.SelectWith(ctx, func(opts analytics.Options) (domain.Selection, error) {
		return ParseSelection(q, opts)
	})
	if err != nil {
		return nil, err
	}
	v.Query = q
	return v, nil
}

func (b *Builder) SelectWith(ctx context.Context, pick SelectFunc) (*View, error) {
	ds, err := b.datasets.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	opts := analytics.BuildOptions(ds.Records)
	sel, err := pick(opts)
	if err != nil {
		return nil, err
	}

	return &View{
		Dataset:   ds,
		Options:   opts,
		Selection: sel,
		Rows:      analytics.Filter(ds.Records, sel),
	}, nil
}

type Metric struct {
	Label string
	Value string
}

type RouteRow struct {
	Rank       int
	Route      string
	Passengers string
	DistanceKm string
}

type CountryPanel struct {
	SVG    template.HTML
	Legend []LegendEntry
}

// Dashboard is the rendered state of every visual. Each block is computed
// on its own so one failure leaves the others intact.
type Dashboard struct {
	Source    domain.Source
	LoadedAt  time.Time
	Options   analytics.Options
	Selection domain.Selection
	ReportURL template.URL

	Metrics   Block[[]Metric]
	Records   Block[[]domain.RouteRecord]
	Trend     Block[template.HTML]
	Countries Block[CountryPanel]
	TopRoutes Block[[]RouteRow]
	// Map is the route GeoJSON, already encoded for the page script.
	Map Block[template.JS]
}

func (d *Dashboard) YearSelected(year int) bool {
	return d.Selection.HasYear(year)
}

func (d *Dashboard) TypeSelected(routeType string) bool {
	return d.Selection.HasType(routeType)
}

func (b *Builder) Dashboard(v *View) *Dashboard {
	d := &Dashboard{
		Source:    v.Dataset.Source,
		LoadedAt:  v.Dataset.LoadedAt,
		Options:   v.Options,
		Selection: v.Selection,
		ReportURL: template.URL("/report.pdf"),
	}
	if len(v.Query) > 0 {
		d.ReportURL = template.URL("/report.pdf?" + v.Query.Encode())
	}

	d.Metrics = Run("metrics", func() ([]Metric, error) {
		s := v.Summary()
		return []Metric{
			{Label: "Total Passengers", Value: humanize.Comma(s.TotalPassengers)},
			{Label: "Total Routes", Value: humanize.Comma(int64(s.TotalRoutes))},
			{Label: "Top Origin Country", Value: s.TopOriginCountry},
		}, nil
	})

	d.Records = Run("data table", func() ([]domain.RouteRecord, error) {
		return v.Rows, nil
	})

	d.Trend = Run(TrendTitle, func() (template.HTML, error) {
		var buf bytes.Buffer
		if err := TrendChart(analytics.YearlyTrend(v.Rows), chart.SVG, &buf); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	})

	d.Countries = Run(CountryTitle, func() (CountryPanel, error) {
		table := analytics.TopByDimension(v.Rows, b.topCountries)
		var buf bytes.Buffer
		if err := CountryChart(table, chart.SVG, &buf); err != nil {
			return CountryPanel{}, err
		}
		return CountryPanel{SVG: template.HTML(buf.String()), Legend: TypeLegend(table.Types)}, nil
	})

	top := Run("top routes", func() ([]analytics.RouteTotal, error) {
		return analytics.TopRoutes(v.Rows, b.topRoutes), nil
	})

	d.TopRoutes = Then("top routes", top, func(top []analytics.RouteTotal) ([]RouteRow, error) {
		return routeRows(top), nil
	})

	d.Map = Then("map", top, func(top []analytics.RouteTotal) (template.JS, error) {
		raw, err := BuildRouteMap(top).MarshalJSON()
		if err != nil {
			return "", err
		}
		return template.JS(raw), nil
	})

	return d
}

func routeRows(top []analytics.RouteTotal) []RouteRow {
	rows := make([]RouteRow, 0, len(top))
	for i, r := range top {
		rows = append(rows, RouteRow{
			Rank:       i + 1,
			Route:      r.Route,
			Passengers: humanize.Comma(r.Passengers),
			DistanceKm: humanize.Comma(int64(r.DistanceKm())),
		})
	}
	return rows
}

// ErrorMessage is the single message shown when no dashboard can be built.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		return "No data source available. Please ensure the database is running or provide a CSV file."
	case errors.Is(err, domain.ErrInvalidSelection):
		return "Invalid filter selection: " + err.Error() + ". Clear the filters and try again."
	default:
		return "Unable to load data for visualization: " + err.Error()
	}
}
