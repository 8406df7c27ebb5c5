package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/internal/services"
)

// assignPermissions maps the role being granted to the permission the
// granting actor must hold.
var assignPermissions = map[string]string{
	models.RolePartner: services.PermAddPartners,
	models.RoleAdmin:   services.PermAddAdmins,
	models.RoleClient:  services.PermAddAgents,
	models.RoleOwner:   services.PermManageCompanies,
}

// RoleHandler handles role assignment HTTP requests
type RoleHandler struct {
	roleService  *services.RoleService
	auditService *services.AuditService
	logger       *logrus.Logger
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService, auditService *services.AuditService, logger *logrus.Logger) *RoleHandler {
	return &RoleHandler{
		roleService:  roleService,
		auditService: auditService,
		logger:       logger,
	}
}

// AssignRoleRequest is the body for role grants
type AssignRoleRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	CompanyID  int64  `json:"company_id" binding:"required"`
	LocationID *int64 `json:"location_id"`
	ChangedBy  int64  `json:"changed_by" binding:"required"`
}

// Assign grants a role within a company. The acting user must hold the
// permission matching the granted role. Repeated grants return the
// existing assignment.
func (h *RoleHandler) Assign(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	required, ok := assignPermissions[req.Role]
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown role: " + req.Role})
		return
	}
	if err := h.roleService.RequirePermission(req.ChangedBy, required); err != nil {
		respondError(c, h.logger, err)
		return
	}

	assignment, err := h.roleService.AssignRole(req.TelegramID, req.Role, req.CompanyID, req.LocationID, req.ChangedBy)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.ChangedBy,
		ActionType: models.ActionRoleAssigned,
		EntityID:   &assignment.ID,
		Details: map[string]interface{}{
			"subject":    req.TelegramID,
			"role":       req.Role,
			"company_id": req.CompanyID,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, assignment)
}

// RemoveRoleRequest is the body for role removals
type RemoveRoleRequest struct {
	TelegramID int64   `json:"telegram_id" binding:"required"`
	CompanyID  int64   `json:"company_id" binding:"required"`
	Role       *string `json:"role"`
	LocationID *int64  `json:"location_id"`
	ChangedBy  int64   `json:"changed_by" binding:"required"`
}

// Remove deletes role assignments matching the filters
func (h *RoleHandler) Remove(c *gin.Context) {
	var req RemoveRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	required := services.PermManageCompanies
	if req.Role != nil {
		if p, ok := assignPermissions[*req.Role]; ok {
			required = p
		}
	}
	if err := h.roleService.RequirePermission(req.ChangedBy, required); err != nil {
		respondError(c, h.logger, err)
		return
	}

	removed, err := h.roleService.RemoveRole(req.TelegramID, req.CompanyID, req.Role, req.LocationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no matching role assignments"})
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.ChangedBy,
		ActionType: models.ActionRoleRemoved,
		Details: map[string]interface{}{
			"subject":    req.TelegramID,
			"company_id": req.CompanyID,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "role assignments removed"})
}

// ListByCompany returns the assignments within a company
func (h *RoleHandler) ListByCompany(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var role *string
	if r := c.Query("role"); r != "" {
		role = &r
	}
	locationID, err := queryInt64(c, "location_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid location_id"})
		return
	}

	assignments, err := h.roleService.ListCompanyRoles(companyID, role, locationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": assignments})
}
