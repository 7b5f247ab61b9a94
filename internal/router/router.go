// Package router wires services, handlers and middleware into the HTTP engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"moneybook/internal/auth"
	_ "moneybook/internal/docs" // swagger docs
	apperrors "moneybook/internal/errors"
	"moneybook/internal/handlers"
	"moneybook/internal/middleware"
	"moneybook/internal/services"
)

// Services groups the business services the API depends on.
type Services struct {
	Users    services.UserServicer
	Entries  services.EntryServicer
	Balances services.BalanceServicer
	Exports  services.ExportServicer
	Audit    services.AuditServicer
}

// NewServices builds the gorm-backed services over db.
func NewServices(db *gorm.DB, hasher auth.PasswordHasher) *Services {
	entries := services.NewEntryService(db)
	balances := services.NewBalanceService(db)
	return &Services{
		Users:    services.NewUserService(db, hasher),
		Entries:  entries,
		Balances: balances,
		Exports:  services.NewExportService(entries, balances),
		Audit:    services.NewAuditService(db),
	}
}

// New returns the configured Gin engine.
func New(svc *Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Balances)
	entryHandler := handlers.NewEntryHandler(svc.Entries, svc.Exports, svc.Audit)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/users/:id/balance", userHandler.GetBalance)

	entries := protected.Group("/entries")
	entries.POST("", entryHandler.CreateEntry)
	entries.GET("", entryHandler.ListEntries)
	entries.GET("/export", entryHandler.ExportEntries)
	entries.GET("/:id", entryHandler.GetEntryByID)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.PATCH("/:id/status", entryHandler.UpdateEntryStatus)
	entries.DELETE("/:id", entryHandler.DeleteEntry)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
