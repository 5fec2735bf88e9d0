package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDatasets struct {
	ds  *domain.Dataset
	err error
}

func (s staticDatasets) Dataset(context.Context) (*domain.Dataset, error) { return s.ds, s.err }
func (s staticDatasets) Refresh(context.Context) (*domain.Dataset, error) { return s.ds, s.err }

func newTestRouter(t *testing.T, datasets staticDatasets) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.swagger.json"), []byte(`{"swagger":"2.0"}`), 0o600))

	cfg := config.Default()
	cfg.HTTP.SwaggerDir = dir
	return NewRouter(&cfg, presentation.NewBuilder(datasets, 10, 5), datasets)
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t, staticDatasets{ds: &domain.Dataset{Source: domain.SourceCSV}})

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/", http.StatusOK},
		{"GET", "/api/v1/summary", http.StatusOK},
		{"GET", "/api/v1/filters", http.StatusOK},
		{"POST", "/api/v1/dataset/refresh", http.StatusOK},
		{"GET", "/swagger/routes.swagger.json", http.StatusOK},
		{"GET", "/docs/index.html", http.StatusOK},
		{"GET", "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewRouter_Unavailable(t *testing.T) {
	router := newTestRouter(t, staticDatasets{err: domain.ErrDataUnavailable})

	for _, path := range []string{"/", "/api/v1/summary", "/report.pdf"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}
