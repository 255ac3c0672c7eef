package services

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pg-portal/models"
)

// TokenValidator checks a bearer token's expiry locally, without a round trip.
// The signature is not verified; the backend remains the authority.
type TokenValidator struct {
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenValidator(now func() time.Time) *TokenValidator {
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{now: now, parser: jwt.NewParser(jwt.WithPaddingAllowed())}
}

// Valid reports whether token has three segments and an exp claim still in the future.
// Any decoding problem makes the token invalid.
func (v *TokenValidator) Valid(token string) bool {
	exp, ok := v.expiry(token)
	if !ok {
		return false
	}
	return exp*1000 > float64(v.now().UnixMilli())
}

// ExpiresAt returns the token's exp claim as a time.
func (v *TokenValidator) ExpiresAt(token string) (time.Time, bool) {
	exp, ok := v.expiry(token)
	if !ok {
		return time.Time{}, false
	}
	sec, frac := math.Modf(exp)
	return time.Unix(int64(sec), int64(frac*1e9)), true
}

// Claims decodes the token payload into the claims the backend issues.
func (v *TokenValidator) Claims(token string) (*models.Claims, bool) {
	payload, ok := v.payload(token)
	if !ok {
		return nil, false
	}
	var claims models.Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

func (v *TokenValidator) payload(token string) ([]byte, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, false
	}
	payload, err := v.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (v *TokenValidator) expiry(token string) (float64, bool) {
	payload, ok := v.payload(token)
	if !ok {
		return 0, false
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var claims jwt.MapClaims
	if err := dec.Decode(&claims); err != nil {
		return 0, false
	}

	exp, ok := numericClaim(claims["exp"])
	if !ok || exp == 0 || math.IsNaN(exp) || math.IsInf(exp, 0) {
		return 0, false
	}
	return exp, true
}

func numericClaim(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AuthClient exchanges a Google ID token for a backend session.
type AuthClient struct {
	api *APIClient
}

func NewAuthClient(api *APIClient) *AuthClient {
	return &AuthClient{api: api}
}

type exchangeResponse struct {
	Token  string          `json:"token"`
	Tenant json.RawMessage `json:"tenant"`
	Admin  json.RawMessage `json:"admin"`
}

// ExchangeTenant signs a tenant in through POST /auth/google.
func (c *AuthClient) ExchangeTenant(ctx context.Context, idToken string) (models.AuthResult[models.Tenant], error) {
	var resp exchangeResponse
	if err := c.api.Do(ctx, http.MethodPost, "/auth/google", map[string]string{"idToken": idToken}, &resp); err != nil {
		return models.AuthResult[models.Tenant]{}, err
	}
	if resp.Token == "" {
		return models.AuthResult[models.Tenant]{}, ErrMissingToken
	}
	tenant, err := DecodeTenant(resp.Tenant)
	if err != nil {
		return models.AuthResult[models.Tenant]{}, err
	}
	if tenant == nil {
		return models.AuthResult[models.Tenant]{}, ErrNoIdentity
	}
	return models.AuthResult[models.Tenant]{Token: resp.Token, Identity: tenant}, nil
}

// ExchangeAdmin signs an admin in through POST /auth/admin/google.
func (c *AuthClient) ExchangeAdmin(ctx context.Context, idToken string) (models.AuthResult[models.Admin], error) {
	var resp exchangeResponse
	if err := c.api.Do(ctx, http.MethodPost, "/auth/admin/google", map[string]string{"idToken": idToken}, &resp); err != nil {
		return models.AuthResult[models.Admin]{}, err
	}
	if resp.Token == "" {
		return models.AuthResult[models.Admin]{}, ErrMissingToken
	}
	admin, err := DecodeAdmin(resp.Admin)
	if err != nil {
		return models.AuthResult[models.Admin]{}, err
	}
	if admin == nil {
		return models.AuthResult[models.Admin]{}, ErrNoIdentity
	}
	return models.AuthResult[models.Admin]{Token: resp.Token, Identity: admin}, nil
}
