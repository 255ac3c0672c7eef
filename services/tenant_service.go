package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"pg-portal/models"
)

// TenantAPI is the tenant surface the workflows depend on.
type TenantAPI interface {
	List(ctx context.Context) ([]*models.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*models.Tenant, error)
	UpdateStatus(ctx context.Context, id string, isActive bool) (*models.Tenant, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.Tenant, error)
	UpdateRoom(ctx context.Context, id string, roomNo *string) (*models.Tenant, error)
}

// TenantClient wraps /api/tenants.
type TenantClient struct {
	api *APIClient
}

func NewTenantClient(api *APIClient) *TenantClient {
	return &TenantClient{api: api}
}

func (c *TenantClient) List(ctx context.Context) ([]*models.Tenant, error) {
	var raw []json.RawMessage
	if err := c.api.Do(ctx, http.MethodGet, "/api/tenants", nil, &raw); err != nil {
		return nil, err
	}
	return DecodeTenants(raw)
}

func (c *TenantClient) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	return c.send(ctx, http.MethodPost, "/api/tenants", tenant)
}

// GetByEmail returns (nil, nil) when the backend answers with an empty body.
func (c *TenantClient) GetByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	return c.send(ctx, http.MethodGet, "/api/tenants/"+url.PathEscape(email), nil)
}

func (c *TenantClient) UpdateStatus(ctx context.Context, id string, isActive bool) (*models.Tenant, error) {
	return c.send(ctx, http.MethodPatch, "/api/tenants/"+url.PathEscape(id)+"/status", map[string]bool{"isActive": isActive})
}

func (c *TenantClient) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.Tenant, error) {
	return c.send(ctx, http.MethodPatch, "/api/tenants/"+url.PathEscape(id)+"/profile", update)
}

// UpdateRoom assigns the tenant to roomNo; nil unassigns.
func (c *TenantClient) UpdateRoom(ctx context.Context, id string, roomNo *string) (*models.Tenant, error) {
	return c.send(ctx, http.MethodPatch, "/api/tenants/"+url.PathEscape(id)+"/room", map[string]*string{"roomNo": roomNo})
}

func (c *TenantClient) send(ctx context.Context, method, path string, body any) (*models.Tenant, error) {
	var raw json.RawMessage
	if err := c.api.Do(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	return DecodeTenant(raw)
}
