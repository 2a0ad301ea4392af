package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/natal-chart/internal/domain/auth"
	"github.com/yanqian/natal-chart/internal/domain/chart"
	"github.com/yanqian/natal-chart/internal/domain/profile"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	chartSvc   chart.Service
	profileSvc profile.Service
	authSvc    auth.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chartSvc chart.Service, profileSvc profile.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chartSvc:   chartSvc,
		profileSvc: profileSvc,
		authSvc:    authSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// ComputeChart builds a natal chart from birth data.
func (h *Handler) ComputeChart(c *gin.Context) {
	var req chart.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.chartSvc.Compute(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListRules returns the rule catalogue with hit counts.
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.chartSvc.Rules(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// Healthz reports liveness and the active ephemeris.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"ephemeris_version": h.chartSvc.EphemerisVersion(),
	})
}

// CreateProfile saves birth data for the caller.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req profile.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	p, err := h.profileSvc.Create(c.Request.Context(), ownerFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListProfiles returns the caller's profiles.
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileSvc.List(c.Request.Context(), ownerFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile.ListResponse{Profiles: profiles})
}

// GetProfile returns one of the caller's profiles.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.profileSvc.Get(c.Request.Context(), ownerFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProfile removes one of the caller's profiles.
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.profileSvc.Delete(c.Request.Context(), ownerFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProfileChart recomputes the chart for a saved profile.
func (h *Handler) ProfileChart(c *gin.Context) {
	resp, err := h.profileSvc.Chart(c.Request.Context(), ownerFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
