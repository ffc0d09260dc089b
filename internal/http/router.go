package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/aadeshp/coursehub/internal/auth"
	"github.com/aadeshp/coursehub/internal/config"
	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/http/handlers"
	"github.com/aadeshp/coursehub/internal/http/middlewares"
	"github.com/aadeshp/coursehub/internal/identity"
	"github.com/aadeshp/coursehub/internal/observability"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Deps carries everything the router wires into handlers. Tests swap
// in memory repos and fake verifiers here.
type Deps struct {
	Resolver handlers.AccountResolver
	Courses  handlers.CourseStore
	Verifier identity.Verifier
	JWT      *auth.Manager
	Ping     func() error
	Prom     *observability.Prom
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("coursehub"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health + metrics
	health := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// handlers
	authHandler := handlers.NewAuthHandler(deps.Resolver, deps.JWT, deps.Verifier, log)
	coursesHandler := handlers.NewCoursesHandler(deps.Courses, log)
	authmw := middlewares.NewAuthMiddleware(deps.JWT)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/google-login", authHandler.GoogleLogin)
	authRoutes.POST("/phone-login", authHandler.PhoneLogin)

	courses := api.Group("/courses")
	courses.Use(authmw.RequireAuth())

	courses.GET("", coursesHandler.ListCourses)
	courses.GET("/:id", coursesHandler.GetCourseByID)
	courses.POST("", authmw.RequireRole(user.RoleInstructor), coursesHandler.CreateCourse)
	courses.PUT("/:id", authmw.RequireRole(user.RoleInstructor), coursesHandler.UpdateCourse)
	courses.DELETE("/:id", authmw.RequireRole(user.RoleInstructor), coursesHandler.DeleteCourse)

	// roster
	courses.POST("/:id/enroll", authmw.RequireRole(user.RoleStudent), coursesHandler.Enroll)
	courses.PUT("/:id/students/:studentId", authmw.RequireRole(user.RoleInstructor), coursesHandler.UpdateStudent)
	courses.DELETE("/:id/students/:studentId", authmw.RequireRole(user.RoleInstructor), coursesHandler.RemoveStudent)

	return r
}
