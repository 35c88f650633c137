package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ydadvisory/internal/pdf"
	"ydadvisory/internal/services"
	"ydadvisory/internal/valuation"
)

const (
	sessionCookie    = "wizard_session"
	sessionCookieAge = 30 * 24 * time.Hour
)

type WizardHandler struct {
	Sessions     *services.WizardService
	PDF          pdf.Generator
	CookieSecure bool
	log          *zap.Logger
}

func NewWizardHandler(sessions *services.WizardService, gen pdf.Generator, cookieSecure bool, log *zap.Logger) *WizardHandler {
	return &WizardHandler{Sessions: sessions, PDF: gen, CookieSecure: cookieSecure, log: log}
}

// session resolves the caller's wizard, issuing a fresh session cookie when the
// request carries none.
func (h *WizardHandler) session(c *gin.Context) *valuation.Wizard {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		id = uuid.NewString()
	} else if _, perr := uuid.Parse(id); perr != nil {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(sessionCookieAge.Seconds()), "/", "", h.CookieSecure, true)
	return h.Sessions.Session(c.Request.Context(), id)
}

// @Summary      Current wizard state
// @Description  Rehydrates the session. fragment=#report jumps to a stored report.
// @Tags         Wizard
// @Produce      json
// @Param        fragment  query     string  false  "URL fragment of the page, e.g. #report"
// @Success      200       {object}  valuation.Snapshot
// @Router       /api/wizard [get]
func (h *WizardHandler) State(c *gin.Context) {
	w := h.session(c)
	if f := c.Query("fragment"); f != "" {
		w.ApplyFragment(c.Request.Context(), f)
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// Options lists the accepted values of every select field.
func (h *WizardHandler) Options(c *gin.Context) {
	out := map[valuation.Field][]string{}
	for _, f := range valuation.Fields {
		if opts := valuation.Options(f); len(opts) > 0 {
			out[f] = opts
		}
	}
	required := map[string][]valuation.Field{}
	for s := valuation.StepCompany; s <= valuation.StepContact; s++ {
		required[s.String()] = valuation.RequiredFields(s)
	}
	c.JSON(http.StatusOK, gin.H{"options": out, "required": required})
}

// @Summary      Update answers
// @Tags         Wizard
// @Accept       json
// @Produce      json
// @Param        answers  body      map[string]string  true  "field → value"
// @Success      200      {object}  valuation.Snapshot
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]interface{}
// @Router       /api/wizard/answers [patch]
func (h *WizardHandler) SetAnswers(c *gin.Context) {
	var body map[string]string
	if !bindJSON(c, &body) {
		return
	}
	values := make(map[valuation.Field]string, len(body))
	unknown := map[string]string{}
	for k, v := range body {
		f := valuation.Field(k)
		if !valuation.IsField(f) {
			unknown[k] = "unknown field"
			continue
		}
		values[f] = v
	}
	if len(unknown) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": unknown})
		return
	}
	w := h.session(c)
	if err := w.SetFields(c.Request.Context(), values); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Next step
// @Description  Validates the current step (1-7) and advances. Step 7 continues to contact.
// @Tags         Wizard
// @Produce      json
// @Success      200  {object}  valuation.Snapshot
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/wizard/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.act(c, http.StatusOK, (*valuation.Wizard).Next)
}

func (h *WizardHandler) Previous(c *gin.Context) {
	h.act(c, http.StatusOK, (*valuation.Wizard).Previous)
}

// @Summary      Get my report
// @Description  Validates the contact step, computes the range and starts the computing step.
// @Tags         Wizard
// @Produce      json
// @Success      202  {object}  valuation.Snapshot
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/wizard/report [post]
func (h *WizardHandler) Report(c *gin.Context) {
	h.act(c, http.StatusAccepted, (*valuation.Wizard).GetReport)
}

func (h *WizardHandler) Reset(c *gin.Context) {
	h.act(c, http.StatusOK, (*valuation.Wizard).Reset)
}

func (h *WizardHandler) act(c *gin.Context, status int, fn func(*valuation.Wizard, context.Context) error) {
	w := h.session(c)
	if err := fn(w, c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, w.Snapshot())
}

type ratingRequest struct {
	Rating int  `json:"rating"`
	Submit bool `json:"submit"`
}

// @Summary      Rate the report
// @Description  Sets a 1-5 rating; submit=true locks it in.
// @Tags         Wizard
// @Accept       json
// @Produce      json
// @Param        rating  body      ratingRequest  true  "rating"
// @Success      200     {object}  valuation.Snapshot
// @Failure      409     {object}  map[string]string
// @Failure      422     {object}  map[string]interface{}
// @Router       /api/wizard/rating [post]
func (h *WizardHandler) Rating(c *gin.Context) {
	var req ratingRequest
	if !bindJSON(c, &req) {
		return
	}
	w := h.session(c)
	ctx := c.Request.Context()
	if req.Rating != 0 || !req.Submit {
		if err := w.SetRating(ctx, req.Rating); err != nil {
			respondError(c, h.log, err)
			return
		}
	}
	if req.Submit {
		if err := w.SubmitRating(ctx); err != nil {
			respondError(c, h.log, err)
			return
		}
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// @Summary      Download the report as PDF
// @Tags         Wizard
// @Produce      application/pdf
// @Success      200
// @Failure      409  {object}  map[string]string
// @Router       /api/wizard/report.pdf [get]
func (h *WizardHandler) ReportPDF(c *gin.Context) {
	snap := h.session(c).Snapshot()
	if snap.Step != valuation.StepReport {
		c.JSON(http.StatusConflict, gin.H{"error": "report is not ready"})
		return
	}
	var buf bytes.Buffer
	err := h.PDF.WriteValuationReport(&buf, pdf.ReportData{
		Answers:     snap.Answers,
		Range:       snap.Range,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	name := services.Slugify(snap.Answers.CompanyName)
	if name == "" {
		name = "business"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-valuation.pdf"`, name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
