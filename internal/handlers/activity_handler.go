package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/gin-gonic/gin"
)

var errInvalidLimit = errors.New("limit must be between 1 and 200")

type JournalReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
}

// ActivityHandler exposes the gateway's own record of upstream mutations.
type ActivityHandler struct {
	journal JournalReader
}

// NewActivityHandler accepts a nil reader when the journal is disabled.
func NewActivityHandler(journal JournalReader) *ActivityHandler {
	return &ActivityHandler{journal: journal}
}

// List handles GET /api/v1/activity?limit=
// Entries are scoped to the signed-in user, not the browser, so a shared client
// never shows a previous user's activity.
func (h *ActivityHandler) List(c *gin.Context) {
	u := currentSession(c).User()
	if h.journal == nil || u == nil || u.ID == "" {
		respondSuccess(c, http.StatusOK, []models.JournalEntry{})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		respondError(c, http.StatusBadRequest, "Invalid limit", errInvalidLimit)
		return
	}

	entries, err := h.journal.ListByUser(c.Request.Context(), u.ID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	respondSuccess(c, http.StatusOK, entries)
}

func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", RequireSession(), h.List)
}
