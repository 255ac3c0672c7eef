package commands

import (
	"context"
	"time"

	"pg-portal/config"
	"pg-portal/controllers"
	"pg-portal/services"
	"pg-portal/storage"
)

// bootstrap loads configuration, starts logging and opens the KV store.
func bootstrap(ctx context.Context) (storage.KVStore, func() error, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, nil, err
	}
	config.InitLogger()

	kv, closeFn, err := config.OpenStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	config.Log.WithField("driver", config.StorageDriver).Info("✅ Storage ready")
	return kv, closeFn, nil
}

// NewPortal wires sessions, clients and workflows around kv.
func NewPortal(ctx context.Context, kv storage.KVStore, archiver services.Archiver) *controllers.Portal {
	validator := services.NewTokenValidator(time.Now)
	tenantSession := services.NewTenantSession(ctx, kv, validator)
	adminSession := services.NewAdminSession(ctx, kv, validator)

	// admin first: its token wins when both portals are signed in
	api := services.NewAPIClient(config.APIBaseURL, config.HTTPTimeout, adminSession, tenantSession)
	rooms := services.NewRoomClient(api)
	tenants := services.NewTenantClient(api)

	notifications := services.NewNotificationCenter(time.Now)
	muts := services.NewMutationController(notifications)

	return &controllers.Portal{
		TenantSession: tenantSession,
		AdminSession:  adminSession,
		Auth:          services.NewAuthClient(api),
		Profile:       services.NewProfileWorkflow(tenantSession, tenants, muts, notifications),
		Setup:         services.NewSetupWorkflow(rooms, muts, notifications),
		Tenants:       services.NewTenantsWorkflow(tenants, rooms, muts, notifications, time.Now),
		Rooms:         rooms,
		Reports:       services.NewReportService(services.NewDashboardClient(api), archiver, time.Local),
		Notifications: notifications,
		Theme:         services.NewThemeService(kv),
	}
}
