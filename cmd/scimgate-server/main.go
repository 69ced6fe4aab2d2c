package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tkoster/scimgate/pkg/scimgate/auth"
	"github.com/tkoster/scimgate/pkg/scimgate/database"
	"github.com/tkoster/scimgate/pkg/scimgate/models"
	"github.com/tkoster/scimgate/pkg/scimgate/scim"
)

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("SCIMGATE_DB_PATH")
	if dbPath == "" {
		dbPath = "scimgate.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create default admin operator if none exists
	if err := ensureAdminExists(); err != nil {
		log.Fatalf("Failed to ensure admin operator exists: %v", err)
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Operator API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))
		authHandler.RegisterProtectedRoutes(api.Group("/auth", auth.AuthMiddleware()))

		// SCIM token management (admin only)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		tokenHandler := scim.NewTokenHandler(database.GetDB())
		tokenHandler.RegisterAdminRoutes(adminGroup)
	}

	// SCIM routes (bearer token auth, outside /api to follow SCIM spec)
	scimGroup := r.Group("/scim/v2")
	scimGroup.Use(scim.SCIMAuthMiddleware(database.GetDB()))
	{
		userHandler := scim.NewUserHandler(database.GetDB())
		userHandler.RegisterRoutes(scimGroup)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting scimgate server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin operator if no admin exists
// in the database.
func ensureAdminExists() error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Operator{}).Where("role = ?", models.OperatorRoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := models.Operator{
		Email:        "admin@scimgate.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		Role:         models.OperatorRoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created default admin operator: admin@scimgate.local (password: changeme)")
	return nil
}
