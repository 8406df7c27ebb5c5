package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/services"
)

// AdminHandler handles back-office reporting HTTP requests
type AdminHandler struct {
	reportService *services.ReportService
	auditService  *services.AuditService
	logger        *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reportService *services.ReportService, auditService *services.AuditService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		reportService: reportService,
		auditService:  auditService,
		logger:        logger,
	}
}

// Stats returns the platform-wide counters
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.Stats()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCoupons streams all coupons as a CSV download
func (h *AdminHandler) ExportCoupons(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="coupons.csv"`)

	if err := h.reportService.ExportCouponsCSV(c.Writer); err != nil {
		h.logger.WithError(err).Error("CSV export failed")
		// Headers may already be written, so just stop the stream
		c.Abort()
	}
}

// RecentActivity returns the newest audit records
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 1000 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = v
	}

	logs, err := h.auditService.RecentActivity(limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": logs})
}

// UserActivity returns one user's audit records
func (h *AdminHandler) UserActivity(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 365 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid days"})
			return
		}
		days = v
	}

	logs, err := h.auditService.UserHistory(telegramID, days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": logs})
}
