package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubdesk/console/internal/dashboard"
)

// DashboardResponse is everything the workbench view renders
type DashboardResponse struct {
	Stats      dashboard.Stats        `json:"stats"`
	TimeSeries []dashboard.MonthPoint `json:"timeSeries"`
	LineChart  dashboard.LineOption   `json:"lineChart"`
	PieChart   dashboard.PieOption    `json:"pieChart"`
	Funnel     []dashboard.Stage      `json:"funnel"`
	Gauge      dashboard.Gauge        `json:"gauge"`
	Radar      dashboard.Radar        `json:"radar"`
	LoadedAt   time.Time              `json:"loadedAt"`
}

// @Summary Dashboard
// @Description Stats and chart data; ?refresh=true reloads instead of using the cached snapshot
// @Tags dashboard
// @Success 200 {object} DashboardResponse
// @Router /dashboard [get]
func (s *Server) getDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	d := s.app.Dashboard

	var (
		stats dashboard.Stats
		err   error
	)
	if c.Query("refresh") == "true" {
		stats, err = d.LoadStats(ctx)
	} else {
		stats, err = d.Stats(ctx)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	series, err := d.TimeSeries(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	dist, err := d.Distribution(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	funnel, err := d.Funnel(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	gauge, err := d.Gauge(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	radar, err := d.Radar(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Stats:      stats,
		TimeSeries: series,
		LineChart:  dashboard.LineChart(series),
		PieChart:   dashboard.PieChart(dist),
		Funnel:     funnel,
		Gauge:      gauge,
		Radar:      radar,
		LoadedAt:   d.LoadedAt(),
	})
}
