package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/config"
	v1 "github.com/dmehra2102/prod-golang-projects/healthtrack/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

type RouterDeps struct {
	Config    *config.Config
	Log       *zap.Logger
	Collector *metrics.Collector
	Limiter   *middleware.IPRateLimiter
	Patients  v1.PatientService
	Ping      v1.Pinger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Log),
		middleware.RequestID(),
		middleware.Logger(deps.Log),
		middleware.Metrics(deps.Collector),
		middleware.CORS(deps.Config.CORS),
	)

	system := v1.NewSystemHandler(deps.Ping)
	r.GET("/", system.Welcome)
	r.GET("/healthz", system.Health)
	r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))

	api := r.Group("/api", middleware.RateLimit(deps.Limiter, deps.Collector))
	v1.NewPatientHandler(deps.Patients).Register(api)

	return r
}
