package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type TeamHandler struct {
	Service *services.TeamService
	log     *zap.Logger
}

func NewTeamHandler(service *services.TeamService, log *zap.Logger) *TeamHandler {
	return &TeamHandler{Service: service, log: log}
}

// @Summary      List team members
// @Tags         Team
// @Produce      json
// @Param        page  query     int  false  "page (1-based)"
// @Param        size  query     int  false  "page size (max 100)"
// @Success      200   {object}  models.ListResult[models.TeamMember]
// @Router       /api/team [get]
func (h *TeamHandler) List(c *gin.Context) {
	res, err := h.Service.List(c.Request.Context(), roleFromCtx(c) == 0, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *TeamHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !m.Active && roleFromCtx(c) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *TeamHandler) Create(c *gin.Context) {
	var m models.TeamMember
	if !bindJSON(c, &m) {
		return
	}
	m.ID = 0
	if err := h.Service.Create(c.Request.Context(), &m); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var m models.TeamMember
	if !bindJSON(c, &m) {
		return
	}
	m.ID = id
	if err := h.Service.Update(c.Request.Context(), &m); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
