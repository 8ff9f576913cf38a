package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/psycoagenda/psycoagenda/api/swagger"
	"github.com/psycoagenda/psycoagenda/internal/handler"
	"github.com/psycoagenda/psycoagenda/internal/service"
	"github.com/psycoagenda/psycoagenda/pkg/config"
	"github.com/psycoagenda/psycoagenda/pkg/logger"
	corsmiddleware "github.com/psycoagenda/psycoagenda/pkg/middleware/cors"
	reqidmiddleware "github.com/psycoagenda/psycoagenda/pkg/middleware/requestid"
)

// Params collects everything the HTTP surface needs.
type Params struct {
	Config       *config.Config
	Logger       *zap.Logger
	Pacientes    *handler.PacienteHandler
	Sesiones     *handler.SesionHandler
	Estadisticas *handler.EstadisticasHandler
	Auth         *handler.AuthHandler
	Reports      *handler.ReportHandler
	Metrics      *handler.MetricsHandler
	MetricsSvc   *service.MetricsService
}

// New assembles the gin engine with middleware and all routes. Collection
// endpoints are registered both with and without a trailing slash because the
// deployed clients disagree on which form to call.
func New(params Params) *gin.Engine {
	if params.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(params.Logger))
	r.Use(corsmiddleware.New(params.Config.CORS.AllowedOrigins))
	if params.MetricsSvc != nil {
		r.Use(observeRequests(params.MetricsSvc))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hola desde PsycoAgenda!"})
	})
	r.GET("/health", params.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	for _, path := range []string{"/pacientes", "/pacientes/"} {
		r.GET(path, params.Pacientes.List)
		r.POST(path, params.Pacientes.Create)
	}
	r.DELETE("/pacientes/:id", params.Pacientes.Delete)

	for _, path := range []string{"/sesiones", "/sesiones/"} {
		r.GET(path, params.Sesiones.List)
		r.POST(path, params.Sesiones.Create)
	}
	r.PUT("/sesiones/:id", params.Sesiones.Update)
	r.DELETE("/sesiones/:id", params.Sesiones.Delete)

	for _, path := range []string{"/estadisticas", "/estadisticas/", "/stats"} {
		r.GET(path, params.Estadisticas.Get)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", params.Auth.Register)
		auth.POST("/login", params.Auth.Login)
		auth.POST("/refresh", params.Auth.Refresh)
	}

	if params.Reports != nil {
		r.POST("/reportes", params.Reports.Enqueue)
		r.GET("/reportes/:id", params.Reports.Get)
		r.GET("/reportes/:id/download", params.Reports.Download)
	}

	r.GET("/metrics", params.Metrics.Prometheus)

	if params.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func observeRequests(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
