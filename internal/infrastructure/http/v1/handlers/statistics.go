package handlers

import (
	"github.com/gin-gonic/gin"

	"onghub/internal/domain/statistics"
	"onghub/internal/infrastructure/http/v1/dto"
	"onghub/internal/infrastructure/http/v1/middleware"
)

// StatisticsHandler serves the dashboards.
type StatisticsHandler struct {
	*BaseHandler
	service *statistics.Service
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(base *BaseHandler, service *statistics.Service) *StatisticsHandler {
	return &StatisticsHandler{BaseHandler: base, service: service}
}

// Hub returns the platform totals.
// GET /statistics/hub
func (h *StatisticsHandler) Hub(c *gin.Context) {
	stats, err := h.service.Hub(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Organization returns the dashboard of one organization as seen by the caller.
// GET /organizations/:id/statistics
func (h *StatisticsHandler) Organization(c *gin.Context) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	user := h.User(c)
	stats, err := h.service.Organization(c.Request.Context(), orgID, user.Role, user.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Requests returns the approved/declined request series.
// GET /statistics/requests?period=MONTHLY
func (h *StatisticsHandler) Requests(c *gin.Context) {
	var q dto.PeriodQuery
	if !h.BindQuery(c, &q) {
		return
	}
	series, err := h.service.Requests(c.Request.Context(), statistics.Period(q.Period))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, series)
}

// Statuses returns the active/restricted organization series.
// GET /statistics/statuses?period=MONTHLY
func (h *StatisticsHandler) Statuses(c *gin.Context) {
	var q dto.PeriodQuery
	if !h.BindQuery(c, &q) {
		return
	}
	series, err := h.service.Statuses(c.Request.Context(), statistics.Period(q.Period))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, series)
}
