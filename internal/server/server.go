package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lifedesigner21/whole-pod-sub000/internal/config"
	"github.com/lifedesigner21/whole-pod-sub000/internal/handler"
	"github.com/lifedesigner21/whole-pod-sub000/internal/logging"
	"github.com/lifedesigner21/whole-pod-sub000/internal/middleware"
	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
	"github.com/lifedesigner21/whole-pod-sub000/internal/service"
	"github.com/lifedesigner21/whole-pod-sub000/internal/stopwatch"
)

type Server struct {
	Engine  *gin.Engine
	Client  *mongo.Client
	Tracker *stopwatch.Tracker
	Config  *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	log := logging.L()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}
	log.WithField("db", cfg.MongoDB).Info("connected to MongoDB")

	db := client.Database(cfg.MongoDB)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	tracker := stopwatch.NewTracker()
	progress := service.NewProgress(taskRepo, milestoneRepo, projectRepo, log)
	notifier := service.NewNotifier(notificationRepo, log)
	workflow := service.NewTaskWorkflow(taskRepo, tracker, progress, notifier, log)
	revenue := service.NewRevenue(projectRepo, milestoneRepo)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret)
	projectHandler := handler.NewProjectHandler(projectRepo, progress, revenue)
	milestoneHandler := handler.NewMilestoneHandler(milestoneRepo, progress)
	taskHandler := handler.NewTaskHandler(taskRepo, workflow)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	r := gin.Default()

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.GetAll)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/recompute", projectHandler.Recompute)
		authorized.GET("/projects/:id/revenue", projectHandler.Revenue)

		// Milestone routes
		authorized.POST("/milestones", milestoneHandler.Create)
		authorized.GET("/milestones/:id", milestoneHandler.GetByID)
		authorized.GET("/projects/:id/milestones", milestoneHandler.ListByProject)
		authorized.PUT("/milestones/:id", milestoneHandler.Update)
		authorized.DELETE("/milestones/:id", milestoneHandler.Delete)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.GET("/my-tasks", taskHandler.ListMine)
		authorized.GET("/projects/:id/milestones/:milestone_id/tasks", taskHandler.ListByMilestone)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/status", taskHandler.ChangeStatus)
		authorized.POST("/tasks/:id/timer/start", taskHandler.StartTimer)
		authorized.GET("/tasks/:id/timer", taskHandler.Elapsed)
		authorized.POST("/tasks/:id/hold", taskHandler.Hold)
		authorized.POST("/tasks/:id/complete", taskHandler.Complete)
		authorized.POST("/tasks/:id/subtasks", taskHandler.AddSubtask)
		authorized.PUT("/tasks/:id/subtasks/:subtask_id", taskHandler.UpdateSubtask)

		// Admin-only workflow actions
		admin := authorized.Group("/")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/tasks/:id/approve", taskHandler.Approve)
			admin.POST("/tasks/:id/request-revision", taskHandler.RequestRevision)
		}

		// Notification routes
		authorized.GET("/notifications", notificationHandler.ListMine)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}

	return &Server{
		Engine:  r,
		Client:  client,
		Tracker: tracker,
		Config:  cfg,
	}, nil
}

func (s *Server) Run() {
	log := logging.L()

	go s.Tracker.Run()

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.WithField("port", s.Config.ServerPort).Info("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	s.Tracker.Close()
	if err := s.Client.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("MongoDB disconnect failed")
	}

	log.Info("server exited")
}
