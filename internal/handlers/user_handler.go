package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/services"
)

// UserHandler handles user registration and profile HTTP requests
type UserHandler struct {
	authService *services.AuthService
	roleService *services.RoleService
	logger      *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService, roleService *services.RoleService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		roleService: roleService,
		logger:      logger,
	}
}

// RegisterRequest is the body for user registration
type RegisterRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	Phone      string `json:"phone"`
}

// Register resolves or creates a user by Telegram ID. Repeating the
// call for a known user returns the existing record with 200.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	user, created, err := h.authService.ResolveOrCreateUser(req.TelegramID, req.FirstName, req.LastName, req.Username, req.Phone)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// Get returns a user by Telegram ID
func (h *UserHandler) Get(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(telegramID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest is the body for profile updates
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
}

// UpdateProfile updates a user's mutable profile fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.authService.UpdateProfile(telegramID, req.FirstName, req.LastName, req.Username, req.Phone); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// Roles returns all role assignments of a user
func (h *UserHandler) Roles(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	roles, err := h.roleService.GetRoleAssignments(telegramID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// CheckPermission reports whether a user holds a permission
func (h *UserHandler) CheckPermission(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}

	permission := c.Query("permission")
	if permission == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "permission query parameter is required"})
		return
	}

	allowed, err := h.roleService.HasPermission(telegramID, permission)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"telegram_id": telegramID, "permission": permission, "allowed": allowed})
}
