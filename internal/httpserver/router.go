package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habittracker/internal/api"
	"habittracker/internal/auth"
	"habittracker/pkg/otel"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	graphQLHandler *api.GraphQLHandler,
	healthHandler *api.HealthHandler,
	session *auth.Session,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(otel.GinMiddleware())
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", healthHandler.Healthz)
	r.HEAD("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// GraphQL，session 中间件只挂在这里
	gql := r.Group("/")
	gql.Use(session.GinMiddleware())
	{
		gql.POST("/graphql", graphQLHandler.Serve)
	}

	return &Router{Engine: r}
}
