package router

import (
	"net/http"

	"telecare/internal/config"
	"telecare/internal/handler"
	"telecare/internal/license"
	"telecare/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// page wires a template under the given route.
func page(r *gin.Engine, route, tmpl, title string) {
	r.GET(route, func(c *gin.Context) {
		c.HTML(http.StatusOK, tmpl, gin.H{"title": title})
	})
}

// SetupRouter configures the Gin engine: pages, gating, and the API.
func SetupRouter(cfg *config.Config, db *gorm.DB, licenses *license.Registry) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
		corsCfg.AllowCredentials = true
		r.Use(cors.New(corsCfg))
	}

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	secret := cfg.Auth.Secret
	encKey := cfg.Security.EncryptionKey
	secureCookie := cfg.Server.Mode == gin.ReleaseMode

	// ====== pages ======
	// the gate redirects: protected pages to /login (with callback),
	// login/register to /dashboard for authenticated visitors
	r.Use(middleware.PageGate(secret, db))

	page(r, "/", "index.html", "Telecare Portal")
	page(r, "/login", "login.html", "Telecare Portal - Sign in")
	page(r, "/register", "register.html", "Telecare Portal - Register")
	page(r, "/dashboard", "dashboard.html", "Telecare Portal - Dashboard")
	page(r, "/appointments", "appointments.html", "Telecare Portal - Appointments")
	page(r, "/records", "records.html", "Telecare Portal - Health records")
	page(r, "/consultation", "consultation.html", "Telecare Portal - Consultation")
	page(r, "/messages", "messages.html", "Telecare Portal - Messages")

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, secret, licenses, secureCookie)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/session", authHandler.Session)

	protected := api.Group("")
	protected.Use(
		middleware.RequireAuth(secret, db),
		middleware.Audit(db, encKey),
	)

	protected.GET("/me", handler.GetMe)
	protected.GET("/doctors", handler.ListDoctors(db))
	protected.PUT("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	healthHandler := handler.NewHealthHandler(db, encKey)
	protected.GET("/health-data", healthHandler.ListAll)
	protected.GET("/health-data/:category", healthHandler.ListCategory)
	protected.POST("/health-data/:category", healthHandler.Create)
	protected.DELETE("/health-data/:category/:id", healthHandler.Delete)

	apptHandler := handler.NewAppointmentHandler(db)
	protected.POST("/appointments", apptHandler.Create)
	protected.GET("/appointments", apptHandler.List)
	protected.POST("/appointments/:ref/cancel", apptHandler.Cancel)
	protected.POST("/appointments/:ref/complete", apptHandler.Complete)

	exportHandler := handler.NewExportHandler(db, encKey)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	archiveHandler := handler.NewArchiveHandler(db, encKey, cfg.Archive.Dir)
	protected.POST("/archives", archiveHandler.Create)
	protected.GET("/archives", archiveHandler.List)
	protected.GET("/archives/:id/download", archiveHandler.Download)
	protected.POST("/archives/:id/restore", archiveHandler.Restore)
	protected.DELETE("/archives/:id", archiveHandler.Delete)

	protected.GET("/recommendations", handler.Recommendations(db))

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	admin.GET("/users", handler.ListUsers(db))
	admin.DELETE("/users/:email", handler.DeleteUserByEmail(db))

	return r
}
