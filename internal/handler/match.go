package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
	"github.com/kavinrajasekaran/TennisTracker/pkg/response"
)

const serviceTimeout = 5 * time.Second

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.POST("/preview", h.preview)
		g.GET("/duplicates", h.duplicates)
	}
}

func bindForm(c *gin.Context) (service.MatchForm, bool) {
	var form service.MatchForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.WriteError(c, service.NewInvalidInputError(service.FieldError{Field: "body", Message: "must be a valid match form"}))
		return service.MatchForm{}, false
	}
	return form, true
}

func (h *MatchHandler) create(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	m, err := h.svc.SaveMatch(ctx, accountID(c), form)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	matches, err := h.svc.ListMatches(c.Request.Context(), accountID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, matches)
}

// preview always answers 200; problems are part of the body.
func (h *MatchHandler) preview(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	response.WriteData(c, http.StatusOK, h.svc.Preview(form))
}

func (h *MatchHandler) duplicates(c *gin.Context) {
	pairs, err := h.svc.DuplicateCandidates(c.Request.Context(), accountID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, pairs)
}
