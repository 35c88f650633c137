package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/models"
	"ydadvisory/internal/services"
)

type NewsletterHandler struct {
	Service *services.NewsletterService
	log     *zap.Logger
}

func NewNewsletterHandler(service *services.NewsletterService, log *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{Service: service, log: log}
}

// @Summary      Subscribe to the newsletter
// @Description  Subscribing an address twice is harmless; a previously unsubscribed address is reactivated.
// @Tags         Newsletter
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "{\"email\": \"...\", \"name\": \"...\"}"
// @Success      200   {object}  models.Subscription
// @Failure      422   {object}  map[string]interface{}
// @Router       /api/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !bindJSON(c, &body) {
		return
	}
	sub, err := h.Service.Subscribe(c.Request.Context(), body.Email, body.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Unsubscribe accepts the token from the query string (email links) or a JSON
// body.
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		_ = c.ShouldBindJSON(&body)
		token = body.Token
	}
	if err := h.Service.Unsubscribe(c.Request.Context(), token); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.SubscriptionUnsubscribed})
}

func (h *NewsletterHandler) List(c *gin.Context) {
	res, err := h.Service.List(c.Request.Context(), models.SubscriptionStatus(c.Query("status")), pageFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *NewsletterHandler) Delete(c *gin.Context) {
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
