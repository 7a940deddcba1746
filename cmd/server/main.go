package main

import (
	"github.com/bygglet/crew-scheduling-api/internal/config"
	"github.com/bygglet/crew-scheduling-api/internal/database"
	"github.com/bygglet/crew-scheduling-api/internal/handlers"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create Redis store")
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("crew_session", store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo)
	conflictService := services.NewConflictService(assignmentRepo, absenceRepo)
	assignmentService := services.NewAssignmentService(assignmentRepo, projectRepo, orgRepo, auditRepo, conflictService)
	attendanceService := services.NewAttendanceService(assignmentRepo, attendanceRepo, userRepo, services.LogNotifier{}, cfg.AttendanceDedupWindow)
	planningService := services.NewPlanningService(orgRepo, projectRepo, assignmentRepo, absenceRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	projectHandler := handlers.NewProjectHandler()
	absenceHandler := handlers.NewAbsenceHandler()
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, aiService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	planningHandler := handlers.NewPlanningHandler(planningService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Crew Scheduling API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
		}

		// Organization-scoped routes: everything below reads and writes inside
		// the organization named by the X-Organization-ID header.
		scoped := api.Group("")
		scoped.Use(middleware.RequireAuth(), middleware.RequireOrganizationScope())
		{
			scoped.GET("/members", orgHandler.ListMembers)
			scoped.PATCH("/members/:user_id/role", middleware.RequireOwner(), orgHandler.UpdateMemberRole)
			scoped.DELETE("/members/:user_id", middleware.RequireOwner(), orgHandler.DeactivateMember)

			scoped.GET("/projects", projectHandler.ListProjects)
			scoped.POST("/projects", projectHandler.CreateProject)
			scoped.PATCH("/projects/:id/status", projectHandler.UpdateProjectStatus)

			scoped.GET("/absences", absenceHandler.ListAbsences)
			scoped.POST("/absences", absenceHandler.CreateAbsence)

			scoped.GET("/assignments", assignmentHandler.ListAssignments)
			scoped.POST("/assignments", assignmentHandler.CreateAssignments)
			scoped.POST("/assignments/suggest", assignmentHandler.SuggestAssignments)
			scoped.GET("/assignments/:id/attendance", attendanceHandler.ListEvents)

			scoped.POST("/attendance", attendanceHandler.RecordEvent)

			scoped.GET("/planning", planningHandler.GetWeekPlan)

			scoped.GET("/audit", middleware.RequireOwner(), auditHandler.ListEntries)
		}
	}

	// Start server
	logrus.Info("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
