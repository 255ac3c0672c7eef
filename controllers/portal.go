package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-portal/models"
	"pg-portal/services"
)

// Authenticator exchanges a Google ID token for a backend session.
type Authenticator interface {
	ExchangeTenant(ctx context.Context, idToken string) (models.AuthResult[models.Tenant], error)
	ExchangeAdmin(ctx context.Context, idToken string) (models.AuthResult[models.Admin], error)
}

// Portal holds everything the handlers work with. One Portal serves one operator.
type Portal struct {
	TenantSession *services.TenantSession
	AdminSession  *services.AdminSession
	Auth          Authenticator
	Profile       *services.ProfileWorkflow
	Setup         *services.SetupWorkflow
	Tenants       *services.TenantsWorkflow
	Rooms         services.RoomAPI
	Reports       *services.ReportService
	Notifications *services.NotificationCenter
	Theme         *services.ThemeService
}

// statusFor maps a service error to the HTTP status handed to the caller.
func statusFor(err error) int {
	var (
		vErr   *services.ValidationError
		apiErr *services.APIError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSessionExpired), errors.Is(err, services.ErrMissingToken), errors.Is(err, services.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrMutationInFlight):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondMutation writes the outcome of an optimistic write.
func respondMutation[T any](c *gin.Context, res services.MutationResult[T]) {
	body := gin.H{"state": res.State.String()}
	switch res.State {
	case services.MutationCommitted:
		body["data"] = res.Value
		c.JSON(http.StatusOK, body)
	case services.MutationSkipped:
		if res.Err != nil {
			body["error"] = res.Err.Error()
			c.JSON(statusFor(res.Err), body)
			return
		}
		c.JSON(http.StatusOK, body)
	default:
		body["error"] = res.Err.Error()
		c.JSON(statusFor(res.Err), body)
	}
}
