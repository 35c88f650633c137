package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type ServiceHandler struct {
	Service *services.CatalogService
	log     *zap.Logger
}

func NewServiceHandler(service *services.CatalogService, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{Service: service, log: log}
}

// @Summary      List advisory services
// @Tags         Services
// @Produce      json
// @Param        page  query     int  false  "page (1-based)"
// @Param        size  query     int  false  "page size (max 100)"
// @Success      200   {object}  models.ListResult[models.Service]
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	// back-office callers also see inactive entries
	activeOnly := roleFromCtx(c) == 0
	res, err := h.Service.List(c.Request.Context(), activeOnly, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Get a service
// @Tags         Services
// @Produce      json
// @Param        id   path      int  true  "service id"
// @Success      200  {object}  models.Service
// @Failure      404  {object}  map[string]string
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !svc.Active && roleFromCtx(c) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) GetBySlug(c *gin.Context) {
	svc, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !svc.Active && roleFromCtx(c) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// @Summary      Create a service
// @Tags         Services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        service  body      models.Service  true  "service"
// @Success      201      {object}  models.Service
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]interface{}
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var svc models.Service
	if !bindJSON(c, &svc) {
		return
	}
	svc.ID = 0
	if err := h.Service.Create(c.Request.Context(), &svc); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var svc models.Service
	if !bindJSON(c, &svc) {
		return
	}
	svc.ID = id
	if err := h.Service.Update(c.Request.Context(), &svc); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
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
