package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/services"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	roleService         *services.RoleService
	logger              *logrus.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subscriptionService *services.SubscriptionService,
	roleService *services.RoleService,
	logger *logrus.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		roleService:         roleService,
		logger:              logger,
	}
}

// CreateSubscriptionRequest is the body for opening a subscription
type CreateSubscriptionRequest struct {
	TelegramID int64     `json:"telegram_id" binding:"required"`
	CompanyID  int64     `json:"company_id" binding:"required"`
	LocationID *int64    `json:"location_id"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

// Create opens a subscription window for a company
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(req.CompanyID, req.LocationID, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// CompanyStatus reports whether a company holds an active subscription
func (h *SubscriptionHandler) CompanyStatus(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	active, err := h.subscriptionService.CompanyHasActiveSubscription(companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company_id": companyID, "active": active})
}

// UserStatus reports whether any of a user's companies is subscribed
func (h *SubscriptionHandler) UserStatus(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	active, err := h.subscriptionService.UserHasActiveSubscription(telegramID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"telegram_id": telegramID, "active": active})
}

// DeactivateRequest carries the acting user of a deactivation
type DeactivateRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// Deactivate ends a subscription early
func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.subscriptionService.DeactivateSubscription(id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subscription deactivated"})
}
