package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
)

// APIV1Prefix is the base path of every versioned route.
const APIV1Prefix = "/api/v1"

// Services groups the use cases exposed over HTTP.
type Services struct {
	Matches       service.MatchService
	Stats         service.StatsService
	Consolidation service.ConsolidationService
}

// Register mounts all public routes on the given engine. Health probes are
// open; everything under the API prefix requires a bearer token.
func Register(r *gin.Engine, health *HealthHandler, auth *Authenticator, svc Services) {
	r.GET("/live", health.Liveness)
	r.GET("/ready", health.Readiness)

	api := r.Group(APIV1Prefix)
	{
		hg := api.Group("/health")
		{
			hg.GET("/live", health.Liveness)
			hg.GET("/ready", health.Readiness)
		}

		secured := api.Group("", auth.Middleware())
		NewMatchHandler(svc.Matches).Register(secured)
		NewPlayerHandler(svc.Stats, svc.Consolidation).Register(secured)
	}
}
