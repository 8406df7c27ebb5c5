package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// CompanyService manages companies, their locations and category links
type CompanyService struct {
	companyRepo      *database.CompanyRepository
	locationRepo     *database.LocationRepository
	categoryRepo     *database.CategoryRepository
	roleRepo         *database.RoleRepository
	logger           *logrus.Logger
	maxCompanies     int
	roleValidityDays int
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo *database.CompanyRepository,
	locationRepo *database.LocationRepository,
	categoryRepo *database.CategoryRepository,
	roleRepo *database.RoleRepository,
	logger *logrus.Logger,
	maxCompanies int,
	roleValidityDays int,
) *CompanyService {
	return &CompanyService{
		companyRepo:      companyRepo,
		locationRepo:     locationRepo,
		categoryRepo:     categoryRepo,
		roleRepo:         roleRepo,
		logger:           logger,
		maxCompanies:     maxCompanies,
		roleValidityDays: roleValidityDays,
	}
}

// CreateCompany creates a company owned by the given user. The creator
// receives a partner role in the same transaction as the company row.
// The per-user cap is enforced by recounting the creator's partner
// companies at call time.
func (s *CompanyService) CreateCompany(ownerTelegramID int64, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name is required: %w", ErrValidation)
	}

	count, err := s.roleRepo.CountCompaniesByRole(ownerTelegramID, models.RolePartner)
	if err != nil {
		return nil, err
	}
	if count >= s.maxCompanies {
		return nil, fmt.Errorf("user %d already has %d companies: %w", ownerTelegramID, count, ErrLimitExceeded)
	}

	ownerAssignment := database.NewAssignment(ownerTelegramID, models.RolePartner, 0, nil, ownerTelegramID, s.roleValidityDays)

	company, err := s.companyRepo.CreateWithOwnerRole(name, ownerAssignment)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"owner_id":   ownerTelegramID,
	}).Info("Company created")

	return company, nil
}

// GetCompany returns a company or ErrNotFound
func (s *CompanyService) GetCompany(id int64) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	return company, nil
}

// DeleteCompany removes a company and its dependent rows
func (s *CompanyService) DeleteCompany(id int64) error {
	deleted, err := s.companyRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("company %d: %w", id, ErrNotFound)
	}

	s.logger.WithField("company_id", id).Info("Company deleted")
	return nil
}

// FilterCompanies returns companies matching all non-empty filter
// dimensions. An empty filter returns every company.
func (s *CompanyService) FilterCompanies(filter models.CompanyFilter) ([]*models.Company, error) {
	return s.companyRepo.Filter(filter)
}

// CreateLocation adds a location to an existing company. The first
// location of a company becomes its main location.
func (s *CompanyService) CreateLocation(companyID int64, name, city, address, mapURL string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	if name == "" || city == "" {
		return nil, fmt.Errorf("location name and city are required: %w", ErrValidation)
	}

	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("company %d: %w", companyID, ErrNotFound)
	}

	existing, err := s.locationRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}

	location := &models.Location{
		CompanyID: companyID,
		Name:      name,
		City:      city,
		Address:   address,
		IsMain:    len(existing) == 0,
	}
	if mapURL != "" {
		location.MapURL = models.NewNullString(mapURL)
	}

	created, err := s.locationRepo.Create(location)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"company_id":  companyID,
		"location_id": created.ID,
	}).Info("Location created")

	return created, nil
}

// ListLocations returns a company's locations, main first
func (s *CompanyService) ListLocations(companyID int64) ([]*models.Location, error) {
	return s.locationRepo.ListByCompany(companyID)
}

// SetMainLocation marks the given location as the company's main one
func (s *CompanyService) SetMainLocation(companyID, locationID int64) error {
	if err := s.locationRepo.SetMain(companyID, locationID); err != nil {
		if strings.Contains(err.Error(), "location not found") {
			return fmt.Errorf("location %d in company %d: %w", locationID, companyID, ErrNotFound)
		}
		return err
	}
	return nil
}

// CreateCategory adds a new category
func (s *CompanyService) CreateCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}
	return s.categoryRepo.Create(name)
}

// ListCategories returns all categories
func (s *CompanyService) ListCategories() ([]*models.Category, error) {
	return s.categoryRepo.List()
}

// LinkLocationCategory attaches a category to one of the company's
// locations. The location must belong to the company and the category
// must exist; links are keyed on the full (company, location, category)
// triple so re-linking is a no-op.
func (s *CompanyService) LinkLocationCategory(companyID, locationID, categoryID int64) error {
	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil || location.CompanyID != companyID {
		return fmt.Errorf("location %d in company %d: %w", locationID, companyID, ErrNotFound)
	}

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}

	return s.categoryRepo.LinkLocation(companyID, locationID, categoryID)
}

// UnlinkLocationCategory removes a category link. Removing an absent
// link succeeds silently.
func (s *CompanyService) UnlinkLocationCategory(companyID, locationID, categoryID int64) error {
	return s.categoryRepo.UnlinkLocation(companyID, locationID, categoryID)
}

// ListLocationCategories returns the categories linked to a location
func (s *CompanyService) ListLocationCategories(companyID, locationID int64) ([]*models.Category, error) {
	return s.categoryRepo.ListByLocation(companyID, locationID)
}
