package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	"github.com/Domenick1991/flightroutes/internal/service/dataset"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	builder  *presentation.Builder
	datasets dataset.DatasetUseCase
}

func NewStatsHandler(builder *presentation.Builder, datasets dataset.DatasetUseCase) *StatsHandler {
	return &StatsHandler{builder: builder, datasets: datasets}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/filters", h.filters)
	router.GET("/summary", h.summary)
	router.GET("/records", h.records)
	router.GET("/trend", h.trend)
	router.GET("/countries/top", h.topCountries)
	router.GET("/routes/top", h.topRoutes)
	router.GET("/map", h.routeMap)
	router.POST("/dataset/refresh", h.refresh)
}

type routeResponse struct {
	analytics.RouteTotal
	DistanceKm float64 `json:"distance_km"`
}

func (h *StatsHandler) view(c *gin.Context) (*presentation.View, bool) {
	view, err := h.builder.Select(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return view, true
}

// limit reads the n query parameter, falling back to def.
func limit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("n")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
		return 0, false
	}
	return n, true
}

func (h *StatsHandler) filters(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view.Options)
}

func (h *StatsHandler) summary(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view.Summary())
}

func (h *StatsHandler) records(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view.Rows)
}

func (h *StatsHandler) trend(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.YearlyTrend(view.Rows))
}

func (h *StatsHandler) topCountries(c *gin.Context) {
	n, ok := limit(c, h.builder.TopCountries())
	if !ok {
		return
	}
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.TopByDimension(view.Rows, n))
}

func (h *StatsHandler) topRoutes(c *gin.Context) {
	n, ok := limit(c, h.builder.TopRoutes())
	if !ok {
		return
	}
	view, ok := h.view(c)
	if !ok {
		return
	}

	top := analytics.TopRoutes(view.Rows, n)
	resp := make([]routeResponse, 0, len(top))
	for _, r := range top {
		resp = append(resp, routeResponse{RouteTotal: r, DistanceKm: r.DistanceKm()})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatsHandler) routeMap(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}

	fc := presentation.BuildRouteMap(analytics.TopRoutes(view.Rows, h.builder.TopRoutes()))
	data, err := fc.MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *StatsHandler) refresh(c *gin.Context) {
	ds, err := h.datasets.Refresh(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":    ds.Source,
		"records":   ds.Len(),
		"loaded_at": ds.LoadedAt,
	})
}
