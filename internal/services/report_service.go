package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// PlatformStats is the aggregate counters block of the stats report
type PlatformStats struct {
	Users            int `json:"users"`
	Companies        int `json:"companies"`
	CouponsTotal     int `json:"coupons_total"`
	CouponsActive    int `json:"coupons_active"`
	CouponsUsed      int `json:"coupons_used"`
	CouponsExpired   int `json:"coupons_expired"`
	CouponsCancelled int `json:"coupons_cancelled"`
}

// ReportService builds aggregate stats and CSV exports for operators
type ReportService struct {
	userRepo    *database.UserRepository
	companyRepo *database.CompanyRepository
	couponRepo  *database.CouponRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	userRepo *database.UserRepository,
	companyRepo *database.CompanyRepository,
	couponRepo *database.CouponRepository,
) *ReportService {
	return &ReportService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		couponRepo:  couponRepo,
	}
}

// Stats returns the platform-wide counters
func (s *ReportService) Stats() (*PlatformStats, error) {
	stats := &PlatformStats{}
	var err error

	if stats.Users, err = s.userRepo.CountUsers(); err != nil {
		return nil, err
	}
	if stats.Companies, err = s.companyRepo.CountCompanies(); err != nil {
		return nil, err
	}
	if stats.CouponsTotal, err = s.couponRepo.CountCoupons(); err != nil {
		return nil, err
	}
	if stats.CouponsActive, err = s.couponRepo.CountByStatus(models.CouponStatusActive); err != nil {
		return nil, err
	}
	if stats.CouponsUsed, err = s.couponRepo.CountByStatus(models.CouponStatusUsed); err != nil {
		return nil, err
	}
	if stats.CouponsExpired, err = s.couponRepo.CountByStatus(models.CouponStatusExpired); err != nil {
		return nil, err
	}
	if stats.CouponsCancelled, err = s.couponRepo.CountByStatus(models.CouponStatusCancelled); err != nil {
		return nil, err
	}

	return stats, nil
}

// ExportCouponsCSV streams all coupons as CSV, newest first. The column
// order is part of the export contract; append new columns at the end.
func (s *ReportService) ExportCouponsCSV(w io.Writer) error {
	coupons, err := s.couponRepo.ListAll()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)

	header := []string{
		"code", "coupon_type_id", "client_id", "status",
		"start_date", "end_date", "issued_by", "used_by",
		"order_amount", "used_at",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range coupons {
		usedBy := ""
		if c.UsedBy.Valid {
			usedBy = strconv.FormatInt(c.UsedBy.Int64, 10)
		}
		orderAmount := ""
		if c.OrderAmount.Valid {
			orderAmount = strconv.FormatFloat(c.OrderAmount.Float64, 'f', 2, 64)
		}
		usedAt := ""
		if c.UsedAt.Valid {
			usedAt = c.UsedAt.Time.Format("2006-01-02 15:04:05")
		}

		record := []string{
			c.Code,
			strconv.FormatInt(c.CouponTypeID, 10),
			strconv.FormatInt(c.ClientID, 10),
			c.Status(),
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"),
			strconv.FormatInt(c.IssuedBy, 10),
			usedBy,
			orderAmount,
			usedAt,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
