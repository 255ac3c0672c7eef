package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"pg-portal/models"
)

// aliasRule resolves one canonical tenant field from the wire names the backend has used for it.
type aliasRule struct {
	names    []string
	fallback json.RawMessage
}

// tenantAliases maps canonical field names to accepted wire names, in priority order.
var tenantAliases = map[string]aliasRule{
	"isActive": {names: []string{"isActive", "active"}, fallback: json.RawMessage("false")},
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// DecodeTenant turns a raw tenant payload into the canonical Tenant.
// A null payload yields (nil, nil).
func DecodeTenant(raw json.RawMessage) (*models.Tenant, error) {
	if isNull(raw) {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode tenant: %w", err)
	}

	for canonical, rule := range tenantAliases {
		resolved := rule.fallback
		for _, name := range rule.names {
			if v, ok := fields[name]; ok && !isNull(v) {
				resolved = v
				break
			}
		}
		for _, name := range rule.names {
			delete(fields, name)
		}
		fields[canonical] = resolved
	}

	renewal := models.ParseDate(fields["renewalDate"])
	delete(fields, "renewalDate")

	canonical, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var tenant models.Tenant
	if err := json.Unmarshal(canonical, &tenant); err != nil {
		return nil, fmt.Errorf("decode tenant: %w", err)
	}
	tenant.RenewalDate = renewal
	return &tenant, nil
}

// DecodeTenants decodes a tenant list, dropping null entries.
func DecodeTenants(raw []json.RawMessage) ([]*models.Tenant, error) {
	tenants := make([]*models.Tenant, 0, len(raw))
	for _, item := range raw {
		t, err := DecodeTenant(item)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tenants = append(tenants, t)
		}
	}
	return tenants, nil
}

// DecodeAdmin decodes an admin payload. A null payload yields (nil, nil).
func DecodeAdmin(raw json.RawMessage) (*models.Admin, error) {
	if isNull(raw) {
		return nil, nil
	}
	var admin models.Admin
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("decode admin: %w", err)
	}
	return &admin, nil
}

// NormalizeTenant returns a canonical copy of t, or nil.
func NormalizeTenant(t *models.Tenant) *models.Tenant {
	return t.Clone()
}

// NormalizeAdmin returns a copy of a with a blank name replaced by the email.
func NormalizeAdmin(a *models.Admin) *models.Admin {
	if a == nil {
		return nil
	}
	c := a.Clone()
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = c.Email
	}
	return c
}

// MergeTenant overlays an authoritative update on the cached tenant.
// The update wins for every field; identity fields it left blank keep their cached value.
func MergeTenant(base, update *models.Tenant) *models.Tenant {
	if update == nil {
		return base.Clone()
	}
	merged := update.Clone()
	if base == nil {
		return merged
	}
	if merged.ID == "" {
		merged.ID = base.ID
	}
	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Email == "" {
		merged.Email = base.Email
	}
	if merged.PictureURL == "" {
		merged.PictureURL = base.PictureURL
	}
	return merged
}

func compactRooms(rooms []*models.Room) []*models.Room {
	out := make([]*models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
