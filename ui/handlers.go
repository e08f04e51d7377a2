package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"greenpulse/domain/series"
	"greenpulse/domain/viewstate"
	apperrors "greenpulse/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"load_id":     s.dash.LoadID().String(),
		"records":     len(s.dash.Records()),
		"fingerprint": s.dash.Views().Fingerprint.Short(),
	})
}

func (s *Server) handleSeries(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, s.dash.Views().Series)
}

func (s *Server) handleBands(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, s.dash.Views().Bands)
}

func (s *Server) handleBaseline(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := s.dash.BaselineWindow()
	c.JSON(http.StatusOK, gin.H{
		"start":    start,
		"end":      end,
		"baseline": s.dash.Views().Baseline,
	})
}

func (s *Server) handleTrends(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, s.dash.Views().Trends)
}

func (s *Server) handleExtent(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.dash.Views()
	c.JSON(http.StatusOK, gin.H{
		"years":  v.YearExtent,
		"values": v.ValueExtent,
	})
}

func (s *Server) handleRegions(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, s.dash.Views().Regions)
}

func (s *Server) handleBarSnapshot(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	year, values, ok := s.dash.BarSnapshot()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"year": nil, "values": values})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "values": values})
}

func (s *Server) handleIngestReport(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.dash.Report()
	c.JSON(http.StatusOK, gin.H{
		"report":  r,
		"dropped": r.Dropped(),
	})
}

func (s *Server) handleResolve(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil {
		abortWithError(c, apperrors.InvalidInput("year must be an integer"))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"values": s.dash.ResolveAtYear(year),
	})
}

func (s *Server) handleTooltip(c *gin.Context) {
	x, err := strconv.ParseFloat(strings.TrimSpace(c.Query("x")), 64)
	if err != nil {
		abortWithError(c, apperrors.InvalidInput("x must be a number"))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tip, ok := s.dash.TooltipAt(x)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"year": nil, "rows": tip.Rows})
		return
	}
	c.JSON(http.StatusOK, tip)
}

func (s *Server) handleState(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c.JSON(http.StatusOK, s.dash.State().Snapshot())
}

// category resolves the path label against the closed set. Unknown labels are
// passed through unchanged; the state transitions ignore them.
func (s *Server) category(c *gin.Context) series.Category {
	label := c.Param("category")
	if cat, ok := s.dash.Categories().Resolve(label); ok {
		return cat
	}
	return series.Category(label)
}

func (s *Server) handleToggle(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.dash.Toggle(s.category(c)).Snapshot())
}

func (s *Server) handleHoverEnter(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.dash.HoverEnter(s.category(c)).Snapshot())
}

func (s *Server) handleHoverLeave(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.dash.HoverLeave().Snapshot())
}

func (s *Server) handleEvent(c *gin.Context) {
	var e viewstate.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		abortWithError(c, apperrors.InvalidInput("invalid event: "+err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cat, ok := s.dash.Categories().Resolve(e.Category.String()); ok {
		e.Category = cat
	}
	c.JSON(http.StatusOK, s.dash.Apply(e).Snapshot())
}

func (s *Server) handleReload(c *gin.Context) {
	if s.reload == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "reload is not configured"})
		return
	}

	bundle, err := s.reload(c.Request.Context())
	if err != nil {
		s.logger.Error("[Server] reload failed: %v", err)
		abortWithError(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.dash.Load(bundle)
	s.logger.Info("[Server] reloaded %d records (load %s)", len(bundle.Records), id)
	c.JSON(http.StatusOK, gin.H{
		"load_id": id.String(),
		"report":  bundle.Report,
	})
}
