package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/internal/services"
)

// CompanyHandler handles company, location and category HTTP requests
type CompanyHandler struct {
	companyService *services.CompanyService
	roleService    *services.RoleService
	auditService   *services.AuditService
	logger         *logrus.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(
	companyService *services.CompanyService,
	roleService *services.RoleService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		roleService:    roleService,
		auditService:   auditService,
		logger:         logger,
	}
}

// CreateCompanyRequest is the body for company creation
type CreateCompanyRequest struct {
	OwnerTelegramID int64  `json:"owner_telegram_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
}

// Create creates a company and grants the creator a partner role
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	company, err := h.companyService.CreateCompany(req.OwnerTelegramID, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		TelegramID: req.OwnerTelegramID,
		ActionType: models.ActionCompanyCreated,
		EntityID:   &company.ID,
		Details:    map[string]interface{}{"name": company.Name},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, company)
}

// Get returns a company by ID
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeleteCompanyRequest carries the acting user of a company deletion
type DeleteCompanyRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// Delete removes a company. Only users with the global company
// management permission may do this.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DeleteCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageCompanies); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.companyService.DeleteCompany(id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}

// Filter returns companies matching the city/category query filters
func (h *CompanyHandler) Filter(c *gin.Context) {
	filter := models.CompanyFilter{
		Cities: c.QueryArray("city"),
	}

	for _, raw := range c.QueryArray("category_id") {
		id, err := parseInt64(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category_id"})
			return
		}
		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}

	companies, err := h.companyService.FilterCompanies(filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateLocationRequest is the body for adding a location
type CreateLocationRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	City       string `json:"city" binding:"required"`
	Address    string `json:"address"`
	MapURL     string `json:"map_url"`
}

// CreateLocation adds a location to a company
func (h *CompanyHandler) CreateLocation(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageOwnLocations); err != nil {
		respondError(c, h.logger, err)
		return
	}

	location, err := h.companyService.CreateLocation(companyID, req.Name, req.City, req.Address, req.MapURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// ListLocations returns a company's locations
func (h *CompanyHandler) ListLocations(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	locations, err := h.companyService.ListLocations(companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// SetMainLocation marks a location as the company's main one
func (h *CompanyHandler) SetMainLocation(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	locationID, ok := pathID(c, "location_id")
	if !ok {
		return
	}

	if err := h.companyService.SetMainLocation(companyID, locationID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "main location updated"})
}

// CreateCategoryRequest is the body for category creation
type CreateCategoryRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// CreateCategory adds a new category to the shared catalog
func (h *CompanyHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RequirePermission(req.TelegramID, services.PermManageCategories); err != nil {
		respondError(c, h.logger, err)
		return
	}

	category, err := h.companyService.CreateCategory(req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns all categories
func (h *CompanyHandler) ListCategories(c *gin.Context) {
	categories, err := h.companyService.ListCategories()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// LinkCategory attaches a category to a company location
func (h *CompanyHandler) LinkCategory(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	locationID, ok := pathID(c, "location_id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "category_id")
	if !ok {
		return
	}

	if err := h.companyService.LinkLocationCategory(companyID, locationID, categoryID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category linked"})
}

// UnlinkCategory removes a category link from a company location
func (h *CompanyHandler) UnlinkCategory(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	locationID, ok := pathID(c, "location_id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "category_id")
	if !ok {
		return
	}

	if err := h.companyService.UnlinkLocationCategory(companyID, locationID, categoryID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category unlinked"})
}

// ListLocationCategories returns the categories linked to a location
func (h *CompanyHandler) ListLocationCategories(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	locationID, ok := pathID(c, "location_id")
	if !ok {
		return
	}

	categories, err := h.companyService.ListLocationCategories(companyID, locationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
