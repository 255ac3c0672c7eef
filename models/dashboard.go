package models

// DashboardCounts are the headline numbers of the admin home page.
type DashboardCounts struct {
	TotalActive       int64 `json:"totalActive"`
	VegCount          int64 `json:"vegCount"`
	NonVegCount       int64 `json:"nonVegCount"`
	TotalCapacity     int64 `json:"totalCapacity"`
	AllocatedCapacity int64 `json:"allocatedCapacity"`
	VacantCapacity    int64 `json:"vacantCapacity"`
}

// TenantSummary is the compact tenant row used by dashboard lists.
type TenantSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	RoomNo      *string    `json:"roomNo"`
	RenewalDate *Timestamp `json:"renewalDate"`
}

// DashboardSummary is the response of GET /api/admin/dashboard/summary.
type DashboardSummary struct {
	Counts            DashboardCounts `json:"counts"`
	TopTenants        []TenantSummary `json:"topTenants"`
	PaymentDueTenants []TenantSummary `json:"paymentDueTenants"`
}
