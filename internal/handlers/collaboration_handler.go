package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/internal/services"
)

// CollaborationHandler handles collaboration lifecycle HTTP requests
type CollaborationHandler struct {
	collabService *services.CollaborationService
	roleService   *services.RoleService
	auditService  *services.AuditService
	logger        *logrus.Logger
}

// NewCollaborationHandler creates a new collaboration handler
func NewCollaborationHandler(
	collabService *services.CollaborationService,
	roleService *services.RoleService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *CollaborationHandler {
	return &CollaborationHandler{
		collabService: collabService,
		roleService:   roleService,
		auditService:  auditService,
		logger:        logger,
	}
}

// ProposeRequest is the body for collaboration proposals
type ProposeRequest struct {
	ProposedBy       int64     `json:"proposed_by" binding:"required"`
	CompanyID        int64     `json:"company_id" binding:"required"`
	LocationID       int64     `json:"location_id" binding:"required"`
	CompanyAgentID   int64     `json:"company_agent_id" binding:"required"`
	LocationAgentID  int64     `json:"location_agent_id" binding:"required"`
	DiscountPercent  float64   `json:"discount_percent" binding:"required"`
	CommissionPct    float64   `json:"commission_percent"`
	RequireAllGroups bool      `json:"require_all_groups"`
	UsageLimit       int       `json:"usage_limit"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	DaysForUsed      int       `json:"days_for_used" binding:"required"`
}

// Propose creates a pending collaboration between two companies
func (h *CollaborationHandler) Propose(c *gin.Context) {
	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.ProposedBy, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ct, err := h.collabService.Propose(models.CollaborationTerms{
		CompanyID:        req.CompanyID,
		LocationID:       req.LocationID,
		CompanyAgentID:   req.CompanyAgentID,
		LocationAgentID:  req.LocationAgentID,
		DiscountPercent:  req.DiscountPercent,
		CommissionPct:    req.CommissionPct,
		RequireAllGroups: req.RequireAllGroups,
		UsageLimit:       req.UsageLimit,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		DaysForUsed:      req.DaysForUsed,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.ProposedBy,
		ActionType: models.ActionCollabProposed,
		EntityID:   &ct.ID,
		Details: map[string]interface{}{
			"company_id":       ct.CompanyID,
			"company_agent_id": ct.CompanyAgentID,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, ct)
}

// DecideRequest carries the acting user of an accept/reject/terminate
type DecideRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// Accept confirms a pending proposal and activates the collaboration
func (h *CollaborationHandler) Accept(c *gin.Context) {
	h.decide(c, models.DecisionAccepted)
}

// Reject declines a pending proposal
func (h *CollaborationHandler) Reject(c *gin.Context) {
	h.decide(c, models.DecisionRejected)
}

func (h *CollaborationHandler) decide(c *gin.Context, decision models.CollaborationDecision) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var ct *models.CouponType
	var err error
	if decision == models.DecisionAccepted {
		ct, err = h.collabService.Accept(id)
	} else {
		ct, err = h.collabService.Reject(id)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.TelegramID,
		ActionType: models.ActionCollabDecided,
		EntityID:   &ct.ID,
		Details:    map[string]interface{}{"decision": string(decision)},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, ct)
}

// Terminate ends a live collaboration
func (h *CollaborationHandler) Terminate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ct, err := h.collabService.Terminate(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.TelegramID,
		ActionType: models.ActionCollabEnded,
		EntityID:   &ct.ID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, ct)
}

// Get returns a collaboration by ID
func (h *CollaborationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ct, err := h.collabService.Get(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ct)
}

// List returns a company's collaborations. The role query parameter
// selects the viewpoint: partner, agent or all.
func (h *CollaborationHandler) List(c *gin.Context) {
	companyID, err := parseInt64(c.Query("company_id"))
	if err != nil || companyID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "company_id query parameter is required"})
		return
	}

	roleFilter := models.CollaborationRoleFilter(c.DefaultQuery("role", string(models.CollabRoleAll)))

	collabs, err := h.collabService.List(companyID, roleFilter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": collabs})
}

// Pending returns proposals awaiting the agent side's decision
func (h *CollaborationHandler) Pending(c *gin.Context) {
	companyAgentID, err := parseInt64(c.Query("company_agent_id"))
	if err != nil || companyAgentID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "company_agent_id query parameter is required"})
		return
	}
	locationAgentID, err := parseInt64(c.Query("location_agent_id"))
	if err != nil || locationAgentID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "location_agent_id query parameter is required"})
		return
	}

	collabs, err := h.collabService.PendingRequests(companyAgentID, locationAgentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": collabs})
}
