package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"pg-portal/config"
	"pg-portal/controllers"
	"pg-portal/middleware"
)

// NewRouter builds the engine with the portal's middleware stack and routes.
func NewRouter(p *controllers.Portal) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		config.Log.WithError(err).Warn("⚠️ Failed to set trusted proxies")
	}

	origins := config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:4200"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Archive-URL"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	secret := config.SessionSecret
	if secret == "" {
		secret = config.DevSessionSecret
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("pg-portal", store))

	SetupRoutes(r, p)
	return r
}

// SetupRoutes registers the tenant portal, admin portal and shared routes.
func SetupRoutes(r *gin.Engine, p *controllers.Portal) {
	loginLimit := middleware.LoginRateLimiter(config.LoginRateLimit)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Tenant portal
	r.GET("/user/login", p.TenantAutoLogin)
	r.POST("/user/login", loginLimit, p.TenantLogin)
	r.POST("/user/logout", p.TenantLogout)

	user := r.Group("/user", middleware.RequireSession(p.TenantSession, "/user/login"))
	{
		user.GET("/profile", p.GetProfile)
		user.POST("/profile/refresh", p.RefreshProfile)
		user.PUT("/profile/status", p.UpdateProfileStatus)
		user.PUT("/profile/meal", p.UpdateMealPreference)
		user.PUT("/profile/continuous-stay", p.UpdateContinuousStay)
		user.PUT("/profile/phone", p.UpdatePhone)
	}

	// Admin portal
	r.GET("/admin/login", p.AdminAutoLogin)
	r.POST("/admin/login", loginLimit, p.AdminLogin)
	r.POST("/admin/logout", p.AdminLogout)

	admin := r.Group("/admin", middleware.RequireSession(p.AdminSession, "/admin/login"))
	{
		admin.GET("/home", p.Home)
		admin.GET("/rooms", p.RoomsOverview)

		admin.GET("/setup", p.SetupRooms)
		admin.GET("/setup/floors/:floor/rooms", p.DeleteOptions)
		admin.POST("/setup/rooms", p.AddRooms)
		admin.PUT("/setup/rooms/:id", p.UpdateRoom)
		admin.DELETE("/setup/rooms/:id", p.DeleteRoom)

		admin.GET("/tenants", p.ListTenants)
		admin.GET("/tenants/:id/rooms", p.TenantRoomOptions)
		admin.PUT("/tenants/:id/room", p.ChangeTenantRoom)
		admin.PUT("/tenants/:id/renewal-date", p.ChangeRenewalDate)
		admin.DELETE("/tenants/:id/renewal-date", p.ClearRenewalDate)

		admin.GET("/report", p.Report)
		admin.GET("/report/export", p.ExportReport)
	}

	r.GET("/notifications", p.ListNotifications)
	r.DELETE("/notifications/:id", p.DismissNotification)
	r.GET("/theme", p.GetTheme)
	r.PUT("/theme", p.SetTheme)
}
