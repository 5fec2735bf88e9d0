package presentation

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	humanize "github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	reportMargin = 10.0
	reportWidth  = 190.0
	lineHeight   = 7.0
)

// Report writes the current selection as a PDF: metrics, the busiest routes
// and both charts. A chart that fails is replaced by its message.
func (b *Builder) Report(v *View, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(reportWidth, 10, "Global Flight Route Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(reportWidth, 5, fmt.Sprintf("Source: %s, loaded %s, %d of %d rows selected",
		v.Dataset.Source, v.Dataset.LoadedAt.Format("2006-01-02 15:04:05"), len(v.Rows), v.Dataset.Len()), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	metrics := Run("metrics", func() (Summary, error) { return v.Summary(), nil })
	heading(pdf, "Key Metrics")
	if metrics.OK() {
		s := metrics.Value
		pdf.SetFont("Helvetica", "", 11)
		for _, m := range [][2]string{
			{"Total Passengers", humanize.Comma(s.TotalPassengers)},
			{"Total Routes", humanize.Comma(int64(s.TotalRoutes))},
			{"Top Origin Country", s.TopOriginCountry},
		} {
			pdf.CellFormat(60, lineHeight, m[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(0, lineHeight, tr(m[1]), "", 1, "L", false, 0, "")
		}
	} else {
		blockError(pdf, tr, metrics.Err)
	}

	routes := Run("top routes", func() ([]RouteRow, error) {
		return routeRows(analytics.TopRoutes(v.Rows, b.topRoutes)), nil
	})
	heading(pdf, fmt.Sprintf("Top %d Busiest Routes", b.topRoutes))
	if routes.OK() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(0xf2, 0xe9, 0xe4)
		pdf.CellFormat(10, lineHeight, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(110, lineHeight, "Route", "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, lineHeight, "Passengers", "1", 0, "R", true, 0, "")
		pdf.CellFormat(35, lineHeight, "Distance (km)", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, r := range routes.Value {
			pdf.CellFormat(10, lineHeight, fmt.Sprint(r.Rank), "1", 0, "C", false, 0, "")
			pdf.CellFormat(110, lineHeight, tr(r.Route), "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, lineHeight, r.Passengers, "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, lineHeight, r.DistanceKm, "1", 1, "R", false, 0, "")
		}
	} else {
		blockError(pdf, tr, routes.Err)
	}

	trend := Run(TrendTitle, func() (*bytes.Buffer, error) {
		var buf bytes.Buffer
		err := TrendChart(analytics.YearlyTrend(v.Rows), chart.PNG, &buf)
		return &buf, err
	})
	heading(pdf, "Passenger Trends by Year")
	chartImage(pdf, tr, "trend", trend)

	countries := Run(CountryTitle, func() (*bytes.Buffer, error) {
		var buf bytes.Buffer
		err := CountryChart(analytics.TopByDimension(v.Rows, b.topCountries), chart.PNG, &buf)
		return &buf, err
	})
	heading(pdf, CountryTitle)
	chartImage(pdf, tr, "countries", countries)

	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0x22, 0x22, 0x3b)
	pdf.CellFormat(reportWidth, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func blockError(pdf *gofpdf.Fpdf, tr func(string) string, msg string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(0xbc, 0x47, 0x49)
	pdf.MultiCell(reportWidth, 6, tr(msg), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func chartImage(pdf *gofpdf.Fpdf, tr func(string) string, name string, b Block[*bytes.Buffer]) {
	if !b.OK() {
		blockError(pdf, tr, b.Err)
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, b.Value)
	pdf.ImageOptions(name, reportMargin, 0, reportWidth, 0, true, opts, 0, "")
}
