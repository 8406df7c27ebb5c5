package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/internal/services"
)

// CouponHandler handles coupon issuance and redemption HTTP requests
type CouponHandler struct {
	couponService *services.CouponService
	roleService   *services.RoleService
	auditService  *services.AuditService
	logger        *logrus.Logger
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(
	couponService *services.CouponService,
	roleService *services.RoleService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		roleService:   roleService,
		auditService:  auditService,
		logger:        logger,
	}
}

// IssueRequest is the body for coupon issuance
type IssueRequest struct {
	CouponTypeID int64 `json:"coupon_type_id" binding:"required"`
	ClientID     int64 `json:"client_id" binding:"required"`
	IssuedBy     int64 `json:"issued_by" binding:"required"`
}

// Issue mints a coupon for a client from a live coupon type
func (h *CouponHandler) Issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.IssuedBy, services.PermGenCoupons); err != nil {
		respondError(c, h.logger, err)
		return
	}

	coupon, err := h.couponService.IssueCoupon(c.Request.Context(), req.CouponTypeID, req.ClientID, req.IssuedBy)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.IssuedBy,
		ActionType: models.ActionCouponIssued,
		EntityID:   &coupon.ID,
		Details: map[string]interface{}{
			"code":      coupon.Code,
			"client_id": req.ClientID,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, coupon)
}

// RedeemRequest is the body for coupon redemption
type RedeemRequest struct {
	UsedBy       int64   `json:"used_by" binding:"required"`
	OrderAmount  float64 `json:"order_amount"`
	CompanyUsed  *int64  `json:"company_used"`
	LocationUsed *int64  `json:"location_used"`
}

// Redeem marks a coupon as used. At most one redemption of a code can
// ever succeed.
func (h *CouponHandler) Redeem(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "coupon code is required"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.UsedBy, services.PermActivateCoupons); err != nil {
		respondError(c, h.logger, err)
		return
	}

	coupon, err := h.couponService.RedeemCoupon(code, req.UsedBy, req.OrderAmount, req.CompanyUsed, req.LocationUsed)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.UsedBy,
		ActionType: models.ActionCouponRedeemed,
		EntityID:   &coupon.ID,
		Details: map[string]interface{}{
			"code":         code,
			"order_amount": req.OrderAmount,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, coupon)
}

// Get returns a coupon by code
func (h *CouponHandler) Get(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "coupon code is required"})
		return
	}

	coupon, err := h.couponService.GetCoupon(code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// CancelRequest carries the acting user of a cancellation
type CancelRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// Cancel administratively cancels an active coupon
func (h *CouponHandler) Cancel(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "coupon code is required"})
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageCoupons); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.couponService.CancelCoupon(code); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "coupon cancelled"})
}

// ListActive returns a client's active coupons, sweeping overdue ones
// to expired first.
func (h *CouponHandler) ListActive(c *gin.Context) {
	clientID, ok := pathID(c, "client_id")
	if !ok {
		return
	}

	coupons, err := h.couponService.ListActiveCoupons(clientID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}
