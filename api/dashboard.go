package api

import (
	"bytes"
	"log"
	"net/http"

	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	builder *presentation.Builder
}

func NewDashboardHandler(builder *presentation.Builder) *DashboardHandler {
	return &DashboardHandler{builder: builder}
}

func (h *DashboardHandler) Register(router gin.IRoutes) {
	router.GET("/", h.page)
	router.GET("/report.pdf", h.report)
	router.GET("/health", h.health)
}

func (h *DashboardHandler) page(c *gin.Context) {
	view, err := h.builder.Select(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		log.Printf("dashboard: %v", err)
		var buf bytes.Buffer
		if rerr := presentation.RenderError(&buf, presentation.ErrorMessage(err)); rerr != nil {
			c.String(http.StatusInternalServerError, rerr.Error())
			return
		}
		c.Data(errorStatus(err), "text/html; charset=utf-8", buf.Bytes())
		return
	}

	var buf bytes.Buffer
	if err := presentation.RenderDashboard(&buf, h.builder.Dashboard(view)); err != nil {
		log.Printf("dashboard: render: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *DashboardHandler) report(c *gin.Context) {
	view, err := h.builder.Select(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		abortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.builder.Report(view, &buf); err != nil {
		log.Printf("report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `inline; filename="flight-routes.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *DashboardHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
