package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightroutes/internal/domain"
)

// CSVRouteRepository reads records from a delimited file with a header row.
type CSVRouteRepository struct {
	path string
}

func NewCSVRouteRepository(path string) *CSVRouteRepository {
	return &CSVRouteRepository{path: path}
}

func (r *CSVRouteRepository) List(ctx context.Context) ([]domain.RouteRecord, error) {
	if r.path == "" {
		return nil, errors.New("csv path is not configured")
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseCSV(f)
}

func (r *CSVRouteRepository) Source() domain.Source {
	return domain.SourceCSV
}

var _ RouteRepository = (*CSVRouteRepository)(nil)

var requiredColumns = []string{"Route", "From", "To", "From_Country", "Year", "Type", "Passengers", "From_Lat", "From_Lon", "To_Lat", "To_Lon"}

// ParseCSV decodes route records. Columns are matched by header name; extra
// columns such as _id or a leading index are ignored.
func ParseCSV(in io.Reader) ([]domain.RouteRecord, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	records := make([]domain.RouteRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, index map[string]int) (domain.RouteRecord, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec domain.RouteRecord
	rec.Route = field("Route")
	rec.From = field("From")
	rec.To = field("To")
	rec.FromCountry = field("From_Country")
	rec.Type = field("Type")

	year, err := parseInt(field("Year"))
	if err != nil {
		return rec, fmt.Errorf("Year: %w", err)
	}
	rec.Year = int(year)

	passengers, err := parseInt(field("Passengers"))
	if err != nil {
		return rec, fmt.Errorf("Passengers: %w", err)
	}
	rec.Passengers = passengers

	coords := []struct {
		name string
		dst  *float64
	}{
		{"From_Lat", &rec.FromLat},
		{"From_Lon", &rec.FromLon},
		{"To_Lat", &rec.ToLat},
		{"To_Lon", &rec.ToLon},
	}
	for _, c := range coords {
		v, err := strconv.ParseFloat(field(c.name), 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = v
	}
	return rec, rec.Validate()
}

// parseInt accepts "1234", "1,234" and whole floats such as "2019.0".
func parseInt(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(f), nil
}
