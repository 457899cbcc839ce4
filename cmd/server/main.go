package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tasktribe/tasktribe-api/internal/auth"
	"github.com/tasktribe/tasktribe-api/internal/config"
	"github.com/tasktribe/tasktribe-api/internal/database"
	"github.com/tasktribe/tasktribe-api/internal/handlers"
	"github.com/tasktribe/tasktribe-api/internal/mailer"
	"github.com/tasktribe/tasktribe-api/internal/middleware"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"github.com/tasktribe/tasktribe-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Redis backs the rate limiter only; the API itself is stateless.
	var rdb *redis.Client
	if cfg.RateLimitEnabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	recorder := services.NewActivityRecorder(activityRepo, 256)
	defer recorder.Close()

	authService := services.NewAuthService(userRepo, verificationRepo, tokens, mail, cfg.FrontendURL)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, projectRepo, tokens, mail, recorder, cfg.FrontendURL)
	projectService := services.NewProjectService(projectRepo, workspaceRepo, taskRepo, recorder)
	taskService := services.NewTaskService(taskRepo, projectRepo, recorder, activityRepo)
	statsService := services.NewStatsService(workspaceRepo, projectRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, statsService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskTribe API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)
	rateLimit := middleware.RateLimit(cfg, rdb)

	// API routes
	api := r.Group("/api-v1")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", rateLimit, authHandler.Register)
			authRoutes.POST("/login", rateLimit, authHandler.Login)
			authRoutes.POST("/verify-email", authHandler.VerifyEmail)
			authRoutes.POST("/reset-password-request", authHandler.RequestPasswordReset)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Workspace routes
		workspaces := api.Group("/workspaces")
		{
			// Public invite landing page info
			workspaces.GET("/:workspaceId/invite", workspaceHandler.GetInviteDetails)

			protected := workspaces.Group("")
			protected.Use(requireAuth)
			{
				protected.POST("", workspaceHandler.CreateWorkspace)
				protected.GET("", workspaceHandler.ListWorkspaces)
				protected.GET("/:workspaceId", workspaceHandler.GetWorkspace)
				protected.GET("/:workspaceId/projects", workspaceHandler.GetWorkspaceProjects)
				protected.GET("/:workspaceId/stats", workspaceHandler.GetWorkspaceStats)
				protected.POST("/:workspaceId/invite-member", workspaceHandler.InviteMember)
				protected.POST("/accept-invite-token", workspaceHandler.AcceptInviteByToken)
				protected.POST("/:workspaceId/accept-generate-invite", workspaceHandler.AcceptGenerateInvite)
			}
		}

		// Project routes (protected). The create route's :id is the
		// workspace id; the rest take a project id.
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("/:id/create-project", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/tasks", projectHandler.GetProjectTasks)
		}

		// Task routes (protected). The create route's :id is the project
		// id; the rest take a task id.
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("/:id/create-task", taskHandler.CreateTask)
			tasks.GET("/my-tasks", taskHandler.GetMyTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id/update-title", taskHandler.UpdateTitle)
			tasks.PUT("/:id/update-description", taskHandler.UpdateDescription)
			tasks.PUT("/:id/update-status", taskHandler.UpdateStatus)
			tasks.PUT("/:id/update-priority", taskHandler.UpdatePriority)
			tasks.PUT("/:id/update-assignees", taskHandler.UpdateAssignees)
			tasks.POST("/:id/add-subtask", taskHandler.AddSubTask)
			tasks.PUT("/:id/update-subtask/:subTaskId", taskHandler.UpdateSubTask)
			tasks.POST("/:id/add-comment", taskHandler.AddComment)
			tasks.GET("/:id/comments", taskHandler.GetComments)
			tasks.POST("/:id/watch", taskHandler.WatchTask)
			tasks.POST("/:id/archived", taskHandler.ArchiveTask)
			tasks.GET("/:id/activity", taskHandler.GetTaskActivity)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
