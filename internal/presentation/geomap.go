package presentation

import (
	"fmt"
	"html"

	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	humanize "github.com/dustin/go-humanize"
	geojson "github.com/paulmach/go.geojson"
)

// Feature kinds and layers understood by the dashboard map script.
const (
	KindRoute       = "route"
	KindMidpoint    = "midpoint"
	KindDeparture   = "departure"
	KindDestination = "destination"
	KindStatic      = "static"

	LayerRoutes  = "Flight Routes"
	LayerMarkers = "Airport Markers"
)

const (
	baseLineWeight  = 2.0
	lineWeightRange = 5.0
	markerRadius    = 6
)

// StaticMarker is drawn on every map regardless of the selection.
var StaticMarker = struct {
	Lat, Lon float64
	Label    string
	Tooltip  string
}{
	Lat:     31.5,
	Lon:     34.5,
	Label:   "Palestine",
	Tooltip: "Palestine - Center of the region",
}

// LineWeight scales a route's stroke with its share of the busiest route.
func LineWeight(passengers, maxPassengers int64) float64 {
	if maxPassengers <= 0 {
		return baseLineWeight
	}
	return baseLineWeight + float64(passengers)/float64(maxPassengers)*lineWeightRange
}

// Midpoint averages latitudes and longitudes independently. It is a plain
// mean, not the great-circle midpoint.
func Midpoint(fromLat, fromLon, toLat, toLon float64) (float64, float64) {
	return (fromLat + toLat) / 2, (fromLon + toLon) / 2
}

// BuildRouteMap lays out the given routes as GeoJSON. The collection's
// bbox covers every route line and midpoint and is unset when there are no
// routes.
func BuildRouteMap(routes []analytics.RouteTotal) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(staticFeature())

	var maxPassengers int64
	for _, r := range routes {
		if r.Passengers > maxPassengers {
			maxPassengers = r.Passengers
		}
	}

	bounds := newBounds()
	for _, r := range routes {
		midLat, midLon := Midpoint(r.FromLat, r.FromLon, r.ToLat, r.ToLon)

		departure := geojson.NewPointFeature([]float64{r.FromLon, r.FromLat})
		setProperties(departure, map[string]interface{}{
			"kind":    KindDeparture,
			"layer":   LayerMarkers,
			"color":   "green",
			"radius":  markerRadius,
			"tooltip": "Departure: " + html.EscapeString(r.From),
			"popup":   endpointPopup("Departure", r.From, r.FromLat, r.FromLon),
		})

		destination := geojson.NewPointFeature([]float64{r.ToLon, r.ToLat})
		setProperties(destination, map[string]interface{}{
			"kind":    KindDestination,
			"layer":   LayerMarkers,
			"color":   "red",
			"radius":  markerRadius,
			"tooltip": "Destination: " + html.EscapeString(r.To),
			"popup":   endpointPopup("Destination", r.To, r.ToLat, r.ToLon),
		})

		line := geojson.NewLineStringFeature([][]float64{{r.FromLon, r.FromLat}, {r.ToLon, r.ToLat}})
		setProperties(line, map[string]interface{}{
			"kind":        KindRoute,
			"layer":       LayerRoutes,
			"color":       "gray",
			"weight":      LineWeight(r.Passengers, maxPassengers),
			"passengers":  r.Passengers,
			"distance_km": r.DistanceKm(),
			"popup": fmt.Sprintf("<b>Route:</b> %s<br><b>Passengers:</b> %s<br><b>Distance:</b> %s km",
				html.EscapeString(r.Route), humanize.Comma(r.Passengers), humanize.Comma(int64(r.DistanceKm()))),
			"popup_max_width": 300,
		})

		midpoint := geojson.NewPointFeature([]float64{midLon, midLat})
		setProperties(midpoint, map[string]interface{}{
			"kind":    KindMidpoint,
			"layer":   LayerRoutes,
			"color":   "blue",
			"tooltip": "Midpoint of " + html.EscapeString(r.Route),
			"popup":   "<b>Midpoint of Route:</b> " + html.EscapeString(r.Route),
		})

		fc.AddFeature(departure)
		fc.AddFeature(destination)
		fc.AddFeature(line)
		fc.AddFeature(midpoint)

		bounds.extend(r.FromLat, r.FromLon)
		bounds.extend(r.ToLat, r.ToLon)
		bounds.extend(midLat, midLon)
	}

	if !bounds.empty {
		fc.BoundingBox = []float64{bounds.minLon, bounds.minLat, bounds.maxLon, bounds.maxLat}
	}
	return fc
}

func staticFeature() *geojson.Feature {
	f := geojson.NewPointFeature([]float64{StaticMarker.Lon, StaticMarker.Lat})
	setProperties(f, map[string]interface{}{
		"kind":            KindStatic,
		"label":           StaticMarker.Label,
		"tooltip":         StaticMarker.Tooltip,
		"popup":           `<div style="text-align:center;font-size:18pt;font-weight:bold;font-style:italic;color:#800000;">🇵🇸 Palestine</div>`,
		"popup_max_width": 250,
	})
	return f
}

func endpointPopup(role, name string, lat, lon float64) string {
	return fmt.Sprintf("<b>%s:</b> %s<br><b>Latitude:</b> %g<br><b>Longitude:</b> %g", role, html.EscapeString(name), lat, lon)
}

func setProperties(f *geojson.Feature, props map[string]interface{}) {
	for k, v := range props {
		f.SetProperty(k, v)
	}
}

type bounds struct {
	minLat, minLon, maxLat, maxLon float64
	empty                          bool
}

func newBounds() *bounds {
	return &bounds{empty: true}
}

func (b *bounds) extend(lat, lon float64) {
	if b.empty {
		b.minLat, b.maxLat, b.minLon, b.maxLon = lat, lat, lon, lon
		b.empty = false
		return
	}
	b.minLat = min(b.minLat, lat)
	b.maxLat = max(b.maxLat, lat)
	b.minLon = min(b.minLon, lon)
	b.maxLon = max(b.maxLon, lon)
}
