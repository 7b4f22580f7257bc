package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/domain/session"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// GetClipboard returns the current selection and mode
func (h *Handlers) GetClipboard(c *gin.Context) {
	c.JSON(http.StatusOK, clipboardOf(sessionFrom(c)))
}

// Copy replaces the selection in Copy mode
func (h *Handlers) Copy(c *gin.Context) {
	h.setSelection(c, (*clipboard.State).Copy)
}

// Cut replaces the selection in Cut mode
func (h *Handlers) Cut(c *gin.Context) {
	h.setSelection(c, (*clipboard.State).Cut)
}

func (h *Handlers) setSelection(c *gin.Context, set func(*clipboard.State, []paths.Path)) {
	var req itemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	items, err := parseItems(req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	s := sessionFrom(c)
	_ = s.Do(func() error {
		set(s.Clipboard, items)
		return nil
	})
	c.JSON(http.StatusOK, clipboardOf(s))
}

// Paste resolves the selection into destination, or the current root
func (h *Handlers) Paste(c *gin.Context) {
	var req pasteRequest
	if !bindOptional(c, &req) {
		return
	}
	destination, err := parseOr(req.Destination, paths.Volumes)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := sessionFrom(c).Paste(c.Request.Context(), destination)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBatchResponse(tasks))
}

func clipboardOf(s *session.Session) clipboardResponse {
	items := s.Clipboard.Items()
	if items == nil {
		items = []paths.Path{}
	}
	return clipboardResponse{Items: items, Mode: s.Clipboard.Mode()}
}
