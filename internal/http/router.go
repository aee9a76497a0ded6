package http

import (
	"log/slog"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires repositories, middleware and routes. A nil redis client
// disables the session cache fast path; a nil pool is only sensible in tests.
func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("taskhub"))

	// health and metrics

	var pinger handlers.Pinger
	if pool != nil {
		pinger = pool
	}

	health := handlers.NewHealthHandler(pinger)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	sessionsRepo := postgres.NewSessionsRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)
	categoriesRepo := postgres.NewCategoriesRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret)
	sessionCache := cache.NewSessions(sessionsRepo, rdb, 0)

	authMW := middlewares.NewAuthMiddleware(jwtManager, sessionCache, usersRepo)
	requireAuth := authMW.RequireAuth()

	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	// handlers

	usersHandler := handlers.NewUsersHandler(usersRepo, sessionsRepo, jwtManager)
	tasksHandler := handlers.NewTasksHandler(tasksRepo, usersRepo, jobsRepo)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesRepo)

	users := r.Group("/users")
	{
		users.POST("/create-user", usersHandler.Register)
		users.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Login)
		users.POST("/logout", requireAuth, usersHandler.Logout)
		users.GET("/my-profile", requireAuth, usersHandler.MyProfile)
		users.PUT("/update-my-profile", requireAuth, usersHandler.UpdateMyProfile)
		users.DELETE("/delete-my-profile", requireAuth, usersHandler.DeleteMyProfile)
	}

	tasks := r.Group("/tasks")
	{
		tasks.POST("/create-task", requireAuth, tasksHandler.CreateTask)
		tasks.GET("/my-tasks", requireAuth, tasksHandler.MyTasks)
		tasks.GET("/tasks-priority-low", requireAuth, tasksHandler.TasksByPriority(task.PriorityLow))
		tasks.GET("/tasks-priority-medium", requireAuth, tasksHandler.TasksByPriority(task.PriorityMedium))
		tasks.GET("/tasks-priority-high", requireAuth, tasksHandler.TasksByPriority(task.PriorityHigh))
		tasks.GET("/tasks-completed", requireAuth, tasksHandler.TasksByCompletion(true))
		tasks.GET("/tasks-incomplete", requireAuth, tasksHandler.TasksByCompletion(false))
		tasks.GET("/get-task/:taskId", requireAuth, tasksHandler.GetTask)
		tasks.PUT("/update-task/:taskId", requireAuth, tasksHandler.UpdateTask)
		// no auth on the status toggle, kept from the system this replaces
		tasks.PUT("/update-task-status/:id", tasksHandler.UpdateTaskStatus)
		tasks.DELETE("/delete-task/:taskId", requireAuth, tasksHandler.DeleteTask)
		tasks.POST("/invite-collaborator/:taskId", requireAuth, tasksHandler.InviteCollaborator)

		// categories live under the tasks prefix
		tasks.GET("/categories", requireAuth, categoriesHandler.ListCategories)
		tasks.POST("/create-category", requireAuth, categoriesHandler.CreateCategory)
		tasks.PUT("/update-category/:categoryId", requireAuth, categoriesHandler.UpdateCategory)
		tasks.DELETE("/delete-category/:categoryId", requireAuth, categoriesHandler.DeleteCategory)
	}

	log.Info("router configured", "env", cfg.Env, "session_cache", rdb != nil)

	return r
}
