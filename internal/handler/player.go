package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
	"github.com/kavinrajasekaran/TennisTracker/pkg/response"
)

type PlayerHandler struct {
	stats         service.StatsService
	consolidation service.ConsolidationService
}

func NewPlayerHandler(stats service.StatsService, consolidation service.ConsolidationService) *PlayerHandler {
	return &PlayerHandler{stats: stats, consolidation: consolidation}
}

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.GET("", h.list)
		g.GET("/:id", h.summary)
		g.GET("/:id/head-to-head", h.headToHead)
		g.POST("/recalculate", h.recalculate)
		g.POST("/consolidate", h.consolidate)
	}
}

func (h *PlayerHandler) list(c *gin.Context) {
	players, err := h.stats.ListPlayers(c.Request.Context(), accountID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *PlayerHandler) summary(c *gin.Context) {
	sum, err := h.stats.PlayerSummary(c.Request.Context(), accountID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, sum)
}

func (h *PlayerHandler) headToHead(c *gin.Context) {
	recs, err := h.stats.HeadToHead(c.Request.Context(), accountID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, recs)
}

func (h *PlayerHandler) recalculate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	players, err := h.stats.Recalculate(ctx, accountID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *PlayerHandler) consolidate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	report, err := h.consolidation.Consolidate(ctx, accountID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, report)
}
