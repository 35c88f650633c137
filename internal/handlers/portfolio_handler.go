package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type PortfolioHandler struct {
	Service *services.PortfolioService
	log     *zap.Logger
}

func NewPortfolioHandler(service *services.PortfolioService, log *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{Service: service, log: log}
}

// @Summary      List portfolio case studies
// @Tags         Portfolio
// @Produce      json
// @Param        featured  query     bool  false  "featured items only"
// @Param        page      query     int   false  "page (1-based)"
// @Param        size      query     int   false  "page size (max 100)"
// @Success      200       {object}  models.ListResult[models.PortfolioItem]
// @Router       /api/portfolio [get]
func (h *PortfolioHandler) List(c *gin.Context) {
	featured := c.Query("featured") == "true"
	res, err := h.Service.List(c.Request.Context(), featured, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PortfolioHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	it, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var it models.PortfolioItem
	if !bindJSON(c, &it) {
		return
	}
	it.ID = 0
	if err := h.Service.Create(c.Request.Context(), &it); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var it models.PortfolioItem
	if !bindJSON(c, &it) {
		return
	}
	it.ID = id
	if err := h.Service.Update(c.Request.Context(), &it); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
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
