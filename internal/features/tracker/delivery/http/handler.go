package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/middleware"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/service"
)

type TrackerHandler struct {
	service service.TrackerService
}

func NewTrackerHandler(service service.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		service: service,
	}
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/config", h.getConfig)
	router.PUT("/config", h.updateConfig)
	router.GET("/data", h.getData)
	router.POST("/scan", h.scan)
	router.GET("/summary", h.getSummary)
}

// @Summary Get tracking config
// @Description Returns the tracked channels, display target, update interval and bucket toggles
// @Tags config
// @Produce json
// @Success 200 {object} models.TrackingConfig
// @Router /config [get]
func (h *TrackerHandler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetConfig())
}

// @Summary Update tracking config
// @Description Partially updates the tracking config. Only the configured owner may call it.
// @Tags config
// @Accept json
// @Produce json
// @Security CallerID
// @Param input body models.ConfigUpdate true "Fields to change"
// @Success 200 {object} models.TrackingConfig
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 403 {object} middleware.ErrorResponse "Caller is not the owner"
// @Failure 500 {object} middleware.ErrorResponse "Persistence failure"
// @Router /config [put]
func (h *TrackerHandler) updateConfig(c *gin.Context) {
	var input models.ConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	cfg, err := h.service.UpdateConfig(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary Get tracked data
// @Description Returns the entry log, the aggregate, the full ranked leaderboard and bucket totals
// @Tags data
// @Produce json
// @Success 200 {object} models.DataView
// @Router /data [get]
func (h *TrackerHandler) getData(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetData())
}

// @Summary Get summary
// @Description Returns the payload rendered into the summary message
// @Tags data
// @Produce json
// @Success 200 {object} models.Summary
// @Router /summary [get]
func (h *TrackerHandler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary())
}

// @Summary Run a scan now
// @Description Rescans every tracked channel and refreshes the summary message
// @Tags data
// @Produce json
// @Security CallerID
// @Success 200 {object} models.CycleResult
// @Failure 403 {object} middleware.ErrorResponse "Caller is not the owner"
// @Failure 502 {object} middleware.ErrorResponse "Display channel unavailable"
// @Router /scan [post]
func (h *TrackerHandler) scan(c *gin.Context) {
	result, err := h.service.TriggerScan(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
