package handlers

import (
	"errors"
	"net/http"
	"strings"

	"digital-menu-api/logger"
	"digital-menu-api/middleware"
	"digital-menu-api/models"
	"digital-menu-api/statemachine"
	"digital-menu-api/translation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ── Translation Endpoint ────────────────────────────────────────────────────

// TranslateBatch translates one unit and stores the result for the caller's menu
func (h *Handler) TranslateBatch(c *gin.Context) {
	var req translation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	res, err := h.Translator.TranslateAndSave(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.translationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type StoreTranslationRequest struct {
	Text         string              `json:"text"`
	LanguageCode models.LanguageCode `json:"languageCode"`
}

// TranslateText translates free text without persisting it
func (h *Handler) TranslateText(c *gin.Context) {
	var req StoreTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	text, err := h.Translator.Translate(c.Request.Context(), req.Text, req.LanguageCode)
	if err != nil {
		h.translationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translatedText": text})
}

func (h *Handler) translationError(c *gin.Context, err error) {
	status := translation.HTTPStatus(err)
	msg := err.Error()
	switch {
	case errors.Is(err, translation.ErrEntityNotFound):
		msg = "Entity not found"
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		msg = "Failed to save translation"
	case status == http.StatusBadGateway:
		logger.FromGin(c).Warn("translation model failed", zap.Error(err))
		msg = "Translation not available"
	}
	c.JSON(status, gin.H{"error": msg})
}

// ── Translation Plans and Jobs ──────────────────────────────────────────────

func parseLanguages(raw string) ([]models.LanguageCode, bool) {
	if raw == "" {
		return nil, true
	}
	var out []models.LanguageCode
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if !models.IsTargetLanguage(code) {
			return nil, false
		}
		out = append(out, models.LanguageCode(code))
	}
	return out, true
}

// TranslationPlan lists the collected units of a menu with the default selection
func (h *Handler) TranslationPlan(c *gin.Context) {
	langs, ok := parseLanguages(c.Query("languages"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		return
	}
	menu, err := h.Repos.Menus.GetTree(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), false)
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	sel := translation.NewSelection(h.Collector.CollectTree(c.Request.Context(), menu), langs...)
	c.JSON(http.StatusOK, sel.Plan())
}

type TranslationJobRequest struct {
	UnitIDs     []string              `json:"unitIds"`
	Kinds       []string              `json:"kinds"`
	Languages   []models.LanguageCode `json:"languages" binding:"omitempty,dive,langcode"`
	MaxInFlight int                   `json:"maxInFlight" binding:"gte=0,lte=16"`
}

// selection builds the selection a job runs on. Explicit unit ids win over
// kinds; with neither the default selection is used.
func (r *TranslationJobRequest) selection(units []translation.Unit) (*translation.Selection, error) {
	sel := translation.NewSelection(units, r.Languages...)
	switch {
	case len(r.UnitIDs) > 0:
		if err := sel.SelectOnly(r.UnitIDs); err != nil {
			return nil, err
		}
	case len(r.Kinds) > 0:
		sel.DeselectAll()
		for _, raw := range r.Kinds {
			kind, ok := translation.ParseKind(raw)
			if !ok {
				return nil, errors.New("unknown kind " + raw)
			}
			sel.SetKind(kind, true)
		}
	}
	return sel, nil
}

// StartTranslationJob translates the selected units of a menu in process and
// answers with the finished job record
func (h *Handler) StartTranslationJob(c *gin.Context) {
	var req TranslationJobRequest
	if !bindJSON(c, &req) {
		return
	}
	ownerID := middleware.GetUserID(c)
	menu, err := h.Repos.Menus.GetTree(c.Request.Context(), ownerID, c.Param("id"), false)
	if err != nil {
		repoError(c, err, "Menu")
		return
	}
	sel, err := req.selection(h.Collector.CollectTree(c.Request.Context(), menu))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log := logger.FromGin(c)
	d := translation.NewDispatcher(translation.ServiceEndpoint{Service: h.Translator, OwnerID: ownerID}, log)
	d.MaxInFlight = h.MaxInFlight
	if req.MaxInFlight > 0 {
		d.MaxInFlight = req.MaxInFlight
	}
	if h.Metrics != nil {
		d.Recorder = h.Metrics
	}

	job, res, err := h.Jobs.Run(c.Request.Context(), d, ownerID, menu.ID, sel)
	switch {
	case errors.Is(err, translation.ErrNothingSelected), errors.Is(err, translation.ErrNoLanguages):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		_ = c.Error(err)
		log.Error("translation job failed", zap.String("menu_id", menu.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Translation job failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "failures": res.Failures})
}

func (h *Handler) ListTranslationJobs(c *gin.Context) {
	jobs, err := h.Repos.Jobs.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		repoError(c, err, "Job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

func (h *Handler) GetTranslationJob(c *gin.Context) {
	job, err := h.Repos.Jobs.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CancelTranslationJob stops a pending or running job of the caller. A run in
// this process is asked to stop and settles as CANCELED on its own; a record
// without a run is canceled directly.
func (h *Handler) CancelTranslationJob(c *gin.Context) {
	job, err := h.Repos.Jobs.GetOwned(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		repoError(c, err, "Job")
		return
	}
	if err := statemachine.CanTransition(job.Status, models.JobCanceled, statemachine.ActorOwner); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if h.Jobs.Cancel(job.ID) {
		c.JSON(http.StatusAccepted, gin.H{"message": "Cancellation requested", "job_id": job.ID})
		return
	}
	if err := h.Jobs.CancelRecord(c.Request.Context(), job); err != nil {
		repoError(c, err, "Job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job canceled", "job": job})
}
