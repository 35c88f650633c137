package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type ContactHandler struct {
	Service *services.ContactService
	log     *zap.Logger
}

func NewContactHandler(service *services.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{Service: service, log: log}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Service string `json:"service"`
}

// @Summary      Submit an enquiry
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        contact  body      contactRequest  true  "enquiry"
// @Success      201      {object}  models.Contact
// @Failure      422      {object}  map[string]interface{}
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact := models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
		Service: req.Service,
	}
	if err := h.Service.Submit(c.Request.Context(), &contact); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
	res, err := h.Service.List(c.Request.Context(), models.ContactStatus(c.Query("status")), pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Move an enquiry through the inbox
// @Description  new → read → replied → archived; skipping forward is allowed, going back is not.
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                true  "contact id"
// @Param        status  body      map[string]string  true  "{\"status\": \"read\"}"
// @Success      200     {object}  models.Contact
// @Failure      409     {object}  map[string]string
// @Router       /api/admin/contacts/{id}/status [patch]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		Status models.ContactStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := h.Service.UpdateStatus(c.Request.Context(), id, body.Status); err != nil {
		respondError(c, h.log, err)
		return
	}
	contact, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
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
