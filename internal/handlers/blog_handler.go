package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type BlogHandler struct {
	Service *services.BlogService
	log     *zap.Logger
}

func NewBlogHandler(service *services.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{Service: service, log: log}
}

// @Summary      List blog posts
// @Description  Public callers see published posts only.
// @Tags         Blog
// @Produce      json
// @Param        tag   query     string  false  "filter by tag"
// @Param        page  query     int     false  "page (1-based)"
// @Param        size  query     int     false  "page size (max 100)"
// @Success      200   {object}  models.ListResult[models.BlogPost]
// @Router       /api/blog [get]
func (h *BlogHandler) List(c *gin.Context) {
	f := models.BlogFilter{
		PublishedOnly: roleFromCtx(c) == 0,
		Tag:           c.Query("tag"),
	}
	res, err := h.Service.List(c.Request.Context(), f, pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Read a blog post
// @Description  Returns the post with markdown rendered to sanitized HTML in content_html.
// @Tags         Blog
// @Produce      json
// @Param        slug  path      string  true  "post slug"
// @Success      200   {object}  models.BlogPost
// @Failure      404   {object}  map[string]string
// @Router       /api/blog/slug/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	p, err := h.Service.Read(c.Request.Context(), c.Param("slug"), roleFromCtx(c) != 0)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BlogHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !p.Published && roleFromCtx(c) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BlogHandler) Create(c *gin.Context) {
	var p models.BlogPost
	if !bindJSON(c, &p) {
		return
	}
	p.ID = 0
	if err := h.Service.Create(c.Request.Context(), &p); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p models.BlogPost
	if !bindJSON(c, &p) {
		return
	}
	p.ID = id
	if err := h.Service.Update(c.Request.Context(), &p); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BlogHandler) Delete(c *gin.Context) {
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
