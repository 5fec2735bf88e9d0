package presentation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDatasetUseCase struct {
	mock.Mock
}

func (m *MockDatasetUseCase) Dataset(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetUseCase) Refresh(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func sampleRecords() []domain.RouteRecord {
	return []domain.RouteRecord{
		{Route: "Jeju–Seoul", From: "Jeju", To: "Seoul", FromCountry: "South Korea", Year: 2019, Type: "Domestic", Passengers: 100, FromLat: 33.51, FromLon: 126.49, ToLat: 37.56, ToLon: 126.80},
		{Route: "Jeju–Seoul", From: "Jeju", To: "Seoul", FromCountry: "South Korea", Year: 2020, Type: "Domestic", Passengers: 50, FromLat: 33.51, FromLon: 126.49, ToLat: 37.56, ToLon: 126.80},
		{Route: "Dubai–London", From: "Dubai", To: "London", FromCountry: "United Arab Emirates", Year: 2020, Type: "International", Passengers: 10, FromLat: 25.25, FromLon: 55.36, ToLat: 51.47, ToLon: -0.45},
	}
}

func TestParseSelection(t *testing.T) {
	opts := analytics.Options{Years: []int{2019, 2020}, Types: []string{"Domestic", "International"}}

	tests := []struct {
		name      string
		query     url.Values
		wantYears []int
		wantTypes []string
	}{
		{
			name:      "no parameters selects everything",
			query:     url.Values{},
			wantYears: []int{2019, 2020},
			wantTypes: []string{"Domestic", "International"},
		},
		{
			name:      "explicit values",
			query:     url.Values{"year": {"2020"}, "type": {"Domestic"}},
			wantYears: []int{2020},
			wantTypes: []string{"Domestic"},
		},
		{
			name:      "submitted form with no years",
			query:     url.Values{"filtered": {"1"}, "type": {"Domestic"}},
			wantYears: []int{},
			wantTypes: []string{"Domestic"},
		},
		{
			name:      "unsubmitted form with only years",
			query:     url.Values{"year": {"2019"}},
			wantYears: []int{2019},
			wantTypes: []string{"Domestic", "International"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelection(tt.query, opts)
			require.NoError(t, err)
			assert.Equal(t, domain.NewSelection(tt.wantYears, tt.wantTypes), sel)
		})
	}
}

func TestParseSelection_InvalidYear(t *testing.T) {
	_, err := ParseSelection(url.Values{"year": {"twenty"}}, analytics.Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestBuilder_Select(t *testing.T) {
	uc := new(MockDatasetUseCase)
	uc.On("Dataset", mock.Anything).Return(&domain.Dataset{Records: sampleRecords(), Source: domain.SourceCSV}, nil)

	b := NewBuilder(uc, 10, 5)
	v, err := b.Select(context.Background(), url.Values{"year": {"2020"}})
	require.NoError(t, err)

	assert.Len(t, v.Rows, 2)
	assert.Equal(t, []int{2019, 2020}, v.Options.Years)
	assert.Equal(t, Summary{TotalPassengers: 60, TotalRoutes: 2, TopOriginCountry: "South Korea"}, v.Summary())
	uc.AssertExpectations(t)
}

func TestBuilder_Select_Unavailable(t *testing.T) {
	uc := new(MockDatasetUseCase)
	uc.On("Dataset", mock.Anything).Return(nil, domain.ErrDataUnavailable)

	_, err := NewBuilder(uc, 10, 5).Select(context.Background(), url.Values{})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestBuilder_Dashboard(t *testing.T) {
	b := NewBuilder(nil, 10, 5)
	v := reportView(sampleRecords())
	v.Query = url.Values{"year": {"2019"}}

	d := b.Dashboard(v)
	require.True(t, d.Metrics.OK())
	assert.Equal(t, []Metric{
		{Label: "Total Passengers", Value: "160"},
		{Label: "Total Routes", Value: "3"},
		{Label: "Top Origin Country", Value: "South Korea"},
	}, d.Metrics.Value)
	assert.True(t, d.Trend.OK())
	assert.True(t, d.Countries.OK())
	assert.Len(t, d.Countries.Value.Legend, 2)
	require.True(t, d.TopRoutes.OK())
	assert.Equal(t, "Jeju–Seoul", d.TopRoutes.Value[0].Route)
	assert.Equal(t, "150", d.TopRoutes.Value[0].Passengers)
	require.True(t, d.Map.OK())
	fc, err := geojson.UnmarshalFeatureCollection([]byte(d.Map.Value))
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1+4*2)
	assert.Equal(t, "/report.pdf?year=2019", string(d.ReportURL))
	assert.True(t, d.YearSelected(2019))
	assert.False(t, d.YearSelected(2021))
	assert.True(t, d.TypeSelected("Domestic"))
}

func TestBuilder_Dashboard_EmptySelection(t *testing.T) {
	b := NewBuilder(nil, 10, 5)
	v := reportView(sampleRecords())
	v.Selection = domain.NewSelection(nil, []string{"Domestic"})
	v.Rows = analytics.Filter(v.Dataset.Records, v.Selection)

	d := b.Dashboard(v)
	require.True(t, d.Metrics.OK())
	assert.Equal(t, "0", d.Metrics.Value[0].Value)
	assert.Equal(t, NoDataLabel, d.Metrics.Value[2].Value)
	assert.False(t, d.Trend.OK())
	assert.Contains(t, d.Trend.Err, TrendTitle)
	assert.False(t, d.Countries.OK())
	assert.True(t, d.TopRoutes.OK())
	assert.Empty(t, d.TopRoutes.Value)
	require.True(t, d.Map.OK())
	fc, err := geojson.UnmarshalFeatureCollection([]byte(d.Map.Value))
	require.NoError(t, err)
	assert.Nil(t, fc.BoundingBox)
}

func TestBuilder_Dashboard_UnencodableMap(t *testing.T) {
	records := sampleRecords()
	records[2].ToLat = math.NaN()

	d := NewBuilder(nil, 10, 5).Dashboard(reportView(records))
	assert.False(t, d.Map.OK())
	assert.Contains(t, d.Map.Err, "Error rendering map")
	assert.Empty(t, d.Map.Value)
	assert.True(t, d.TopRoutes.OK())
	assert.True(t, d.Metrics.OK())

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, d))
	assert.NotContains(t, buf.String(), "json: error")
	assert.Contains(t, buf.String(), "Error rendering map")
}

func TestRenderDashboard(t *testing.T) {
	d := NewBuilder(nil, 10, 5).Dashboard(reportView(sampleRecords()))

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, d))
	page := buf.String()

	assert.Contains(t, page, "Key Metrics")
	assert.Contains(t, page, "Top 10 Busiest Routes")
	assert.Contains(t, page, "<svg")
	assert.Contains(t, page, `name="filtered" value="1"`)
	assert.Contains(t, page, "Jeju–Seoul")
	assert.NotContains(t, page, `class="error"`)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "no source",
			err:  errors.Join(domain.ErrDataUnavailable, errors.New("dial tcp: refused")),
			want: "No data source available. Please ensure the database is running or provide a CSV file.",
		},
		{
			name: "bad filter",
			err:  fmt.Errorf("%w: year %q", domain.ErrInvalidSelection, "twenty"),
			want: `Invalid filter selection: invalid selection: year "twenty". Clear the filters and try again.`,
		},
		{
			name: "other",
			err:  errors.New("decode routes: EOF"),
			want: "Unable to load data for visualization: decode routes: EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	msg := ErrorMessage(errors.Join(domain.ErrDataUnavailable, errors.New("dial tcp: refused")))
	require.NoError(t, RenderError(&buf, msg))

	page := buf.String()
	assert.Equal(t, 1, strings.Count(page, `class="error"`))
	assert.Contains(t, page, "No data source available")
	assert.NotContains(t, page, "Key Metrics")
}
