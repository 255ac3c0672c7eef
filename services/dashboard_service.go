package services

import (
	"context"
	"net/http"

	"pg-portal/models"
)

// DashboardAPI is the statistics surface of the admin pages.
type DashboardAPI interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	MealStats(ctx context.Context) ([]models.MealStatsPoint, error)
	AllocationStats(ctx context.Context) ([]models.AllocationStatsPoint, error)
}

// DashboardClient wraps /api/admin/dashboard.
type DashboardClient struct {
	api *APIClient
}

func NewDashboardClient(api *APIClient) *DashboardClient {
	return &DashboardClient{api: api}
}

// Summary loads the dashboard, filling missing counts with zeros and missing lists with empty ones.
func (c *DashboardClient) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var resp struct {
		Counts            *models.DashboardCounts `json:"counts"`
		TopTenants        []models.TenantSummary  `json:"topTenants"`
		PaymentDueTenants []models.TenantSummary  `json:"paymentDueTenants"`
	}
	if err := c.api.Do(ctx, http.MethodGet, "/api/admin/dashboard/summary", nil, &resp); err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TopTenants:        resp.TopTenants,
		PaymentDueTenants: resp.PaymentDueTenants,
	}
	if resp.Counts != nil {
		summary.Counts = *resp.Counts
	}
	if summary.TopTenants == nil {
		summary.TopTenants = []models.TenantSummary{}
	}
	if summary.PaymentDueTenants == nil {
		summary.PaymentDueTenants = []models.TenantSummary{}
	}
	return summary, nil
}

func (c *DashboardClient) MealStats(ctx context.Context) ([]models.MealStatsPoint, error) {
	stats := []models.MealStatsPoint{}
	if err := c.api.Do(ctx, http.MethodGet, "/api/admin/dashboard/meal-stats", nil, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.MealStatsPoint{}
	}
	return stats, nil
}

func (c *DashboardClient) AllocationStats(ctx context.Context) ([]models.AllocationStatsPoint, error) {
	stats := []models.AllocationStatsPoint{}
	if err := c.api.Do(ctx, http.MethodGet, "/api/admin/dashboard/allocation-stats", nil, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.AllocationStatsPoint{}
	}
	return stats, nil
}
