package domain

import (
	"fmt"
	"math"
	"time"
)

// RouteRecord is one scraped row: a route's passenger count for a year.
// Field names match the document keys and the CSV header.
type RouteRecord struct {
	Route       string  `bson:"Route" json:"Route"`
	From        string  `bson:"From" json:"From"`
	To          string  `bson:"To" json:"To"`
	FromCountry string  `bson:"From_Country" json:"From_Country"`
	Year        int     `bson:"Year" json:"Year"`
	Type        string  `bson:"Type" json:"Type"`
	Passengers  int64   `bson:"Passengers" json:"Passengers"`
	FromLat     float64 `bson:"From_Lat" json:"From_Lat"`
	FromLon     float64 `bson:"From_Lon" json:"From_Lon"`
	ToLat       float64 `bson:"To_Lat" json:"To_Lat"`
	ToLon       float64 `bson:"To_Lon" json:"To_Lon"`
}

// Validate rejects negative passenger counts and coordinates that are NaN or
// infinite.
func (r RouteRecord) Validate() error {
	if r.Passengers < 0 {
		return fmt.Errorf("Passengers: negative count %d", r.Passengers)
	}
	coords := []struct {
		name string
		v    float64
	}{
		{"From_Lat", r.FromLat},
		{"From_Lon", r.FromLon},
		{"To_Lat", r.ToLat},
		{"To_Lon", r.ToLon},
	}
	for _, c := range coords {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%s: %v is not a finite number", c.name, c.v)
		}
	}
	return nil
}

type Source string

const (
	SourceMongo    Source = "mongo"
	SourcePostgres Source = "postgres"
	SourceCSV      Source = "csv"
)

type Dataset struct {
	Records  []RouteRecord `json:"records"`
	Source   Source        `json:"source"`
	LoadedAt time.Time     `json:"loaded_at"`
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Selection holds the chosen years and route types. A nil or empty set
// selects nothing on that dimension.
type Selection struct {
	Years map[int]struct{}
	Types map[string]struct{}
}

func NewSelection(years []int, types []string) Selection {
	s := Selection{
		Years: make(map[int]struct{}, len(years)),
		Types: make(map[string]struct{}, len(types)),
	}
	for _, y := range years {
		s.Years[y] = struct{}{}
	}
	for _, t := range types {
		s.Types[t] = struct{}{}
	}
	return s
}

func (s Selection) HasYear(year int) bool {
	_, ok := s.Years[year]
	return ok
}

func (s Selection) HasType(routeType string) bool {
	_, ok := s.Types[routeType]
	return ok
}
