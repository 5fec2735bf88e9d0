package analytics

import (
	"sort"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

type YearTotal struct {
	Year       int   `json:"year"`
	Passengers int64 `json:"passengers"`
}

// RouteTotal is one route's passengers summed over the selected rows.
type RouteTotal struct {
	Route      string  `json:"route"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	FromLat    float64 `json:"from_lat"`
	FromLon    float64 `json:"from_lon"`
	ToLat      float64 `json:"to_lat"`
	ToLon      float64 `json:"to_lon"`
	Passengers int64   `json:"passengers"`
}

// DistanceKm is the great-circle length of the route.
func (r RouteTotal) DistanceKm() float64 {
	from := s2.LatLngFromDegrees(r.FromLat, r.FromLon)
	to := s2.LatLngFromDegrees(r.ToLat, r.ToLon)
	return from.Distance(to).Radians() * earthRadiusKm
}

// CountryTypeRow holds one country's passengers per route type, aligned
// with CountryTypeTable.Types.
type CountryTypeRow struct {
	Country string  `json:"country"`
	Values  []int64 `json:"values"`
}

type CountryTypeTable struct {
	Types []string         `json:"types"`
	Rows  []CountryTypeRow `json:"rows"`
}

func TotalPassengers(rows []domain.RouteRecord) int64 {
	var total int64
	for _, r := range rows {
		total += r.Passengers
	}
	return total
}

func RouteCount(rows []domain.RouteRecord) int {
	return len(rows)
}

// TopOriginCountry returns the origin country with the most passengers.
// Ties go to the country seen first.
func TopOriginCountry(rows []domain.RouteRecord) (string, error) {
	if len(rows) == 0 {
		return "", domain.ErrNoData
	}

	order := make([]string, 0)
	sums := make(map[string]int64)
	for _, r := range rows {
		if _, ok := sums[r.FromCountry]; !ok {
			order = append(order, r.FromCountry)
		}
		sums[r.FromCountry] += r.Passengers
	}

	best := order[0]
	for _, c := range order[1:] {
		if sums[c] > sums[best] {
			best = c
		}
	}
	return best, nil
}

// YearlyTrend sums passengers per year, ordered by year.
func YearlyTrend(rows []domain.RouteRecord) []YearTotal {
	sums := make(map[int]int64)
	for _, r := range rows {
		sums[r.Year] += r.Passengers
	}

	out := make([]YearTotal, 0, len(sums))
	for year, total := range sums {
		out = append(out, YearTotal{Year: year, Passengers: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopByDimension sums passengers per (origin country, type), pivots types
// into columns with zero fill, and keeps the n countries with the largest
// row totals. Ties keep first-seen country order.
func TopByDimension(rows []domain.RouteRecord, n int) CountryTypeTable {
	typeSet := make(map[string]struct{})
	countries := make([]string, 0)
	sums := make(map[string]map[string]int64)

	for _, r := range rows {
		byType, ok := sums[r.FromCountry]
		if !ok {
			byType = make(map[string]int64)
			sums[r.FromCountry] = byType
			countries = append(countries, r.FromCountry)
		}
		byType[r.Type] += r.Passengers
		typeSet[r.Type] = struct{}{}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	type ranked struct {
		row   CountryTypeRow
		total int64
	}
	all := make([]ranked, 0, len(countries))
	for _, c := range countries {
		values := make([]int64, len(types))
		var total int64
		for i, t := range types {
			values[i] = sums[c][t]
			total += values[i]
		}
		all = append(all, ranked{row: CountryTypeRow{Country: c, Values: values}, total: total})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].total > all[j].total })

	if n > len(all) {
		n = len(all)
	}
	table := CountryTypeTable{Types: types, Rows: make([]CountryTypeRow, 0, max(n, 0))}
	for i := 0; i < n; i++ {
		table.Rows = append(table.Rows, all[i].row)
	}
	return table
}

type routeKey struct {
	route, from, to                string
	fromLat, fromLon, toLat, toLon float64
}

// TopRoutes groups rows by route and endpoints, sums passengers and keeps
// the n busiest. Ties keep first-seen order.
func TopRoutes(rows []domain.RouteRecord, n int) []RouteTotal {
	index := make(map[routeKey]int)
	totals := make([]RouteTotal, 0)

	for _, r := range rows {
		key := routeKey{r.Route, r.From, r.To, r.FromLat, r.FromLon, r.ToLat, r.ToLon}
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, RouteTotal{
				Route:   r.Route,
				From:    r.From,
				To:      r.To,
				FromLat: r.FromLat,
				FromLon: r.FromLon,
				ToLat:   r.ToLat,
				ToLon:   r.ToLon,
			})
		}
		totals[i].Passengers += r.Passengers
	}

	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Passengers > totals[j].Passengers })
	if n < 0 {
		n = 0
	}
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
