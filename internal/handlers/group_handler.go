package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/services"
)

// GroupHandler handles Telegram group HTTP requests
type GroupHandler struct {
	groupService *services.GroupService
	roleService  *services.RoleService
	logger       *logrus.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *services.GroupService, roleService *services.RoleService, logger *logrus.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		roleService:  roleService,
		logger:       logger,
	}
}

// RegisterGroupRequest is the body for group registration
type RegisterGroupRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	CompanyID  int64  `json:"company_id" binding:"required"`
	ChatID     int64  `json:"chat_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// Register records a company's Telegram group
func (h *GroupHandler) Register(c *gin.Context) {
	var req RegisterGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	group, err := h.groupService.RegisterGroup(req.CompanyID, req.ChatID, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListByCompany returns a company's registered groups
func (h *GroupHandler) ListByCompany(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// RemoveGroupRequest carries the acting user and owning company
type RemoveGroupRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
	CompanyID  int64 `json:"company_id" binding:"required"`
}

// Remove deletes a company group
func (h *GroupHandler) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RemoveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.groupService.RemoveGroup(id, req.CompanyID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group removed"})
}

// RequireGroupRequest is the body for attaching a group to a coupon type
type RequireGroupRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
	GroupID    int64 `json:"group_id" binding:"required"`
	CompanyID  int64 `json:"company_id" binding:"required"`
}

// RequireForCouponType makes membership of a group a precondition for
// coupons of the given type.
func (h *GroupHandler) RequireForCouponType(c *gin.Context) {
	couponTypeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RequireGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.groupService.RequireGroupForCouponType(couponTypeID, req.GroupID, req.CompanyID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group requirement added"})
}
