package presentation

import (
	"bytes"
	"net/url"
	"testing"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportView(rows []domain.RouteRecord) *View {
	ds := &domain.Dataset{Records: rows, Source: domain.SourceCSV, LoadedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts := analytics.BuildOptions(rows)
	sel := domain.NewSelection(opts.Years, opts.Types)
	return &View{Dataset: ds, Options: opts, Selection: sel, Rows: analytics.Filter(rows, sel), Query: url.Values{}}
}

func TestReport(t *testing.T) {
	b := NewBuilder(nil, 10, 5)

	var buf bytes.Buffer
	require.NoError(t, b.Report(reportView(sampleRecords()), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestReport_EmptySelection(t *testing.T) {
	b := NewBuilder(nil, 10, 5)

	var buf bytes.Buffer
	require.NoError(t, b.Report(reportView(nil), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
