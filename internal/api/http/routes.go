package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/api/middleware"
)

// Register mounts every JSON route on r and returns the /sessions/:id
// group so streaming routes can join it.
func (h *Handlers) Register(r gin.IRouter) *gin.RouterGroup {
	r.GET("/health", h.Health)
	r.GET("/trash", h.ListTrash)
	r.POST("/sessions", h.CreateSession)
	r.DELETE("/sessions/:id", h.DeleteSession)

	s := r.Group("/sessions/:id", middleware.Session(h.sessions))

	s.GET("/navigation", h.GetNavigation)
	s.POST("/navigation/enter", h.Enter)
	s.POST("/navigation/back", h.Back)
	s.POST("/navigation/breadcrumb", h.Breadcrumb)
	s.POST("/navigation/goto", h.Goto)
	s.POST("/navigation/home", h.Home)
	s.GET("/entries", h.Entries)

	s.GET("/clipboard", h.GetClipboard)
	s.POST("/clipboard/copy", h.Copy)
	s.POST("/clipboard/cut", h.Cut)
	s.POST("/clipboard/paste", h.Paste)

	s.POST("/files/delete", h.Delete)
	s.POST("/files/recycle", h.Recycle)
	s.POST("/files/rename", h.Rename)
	s.POST("/files/mkdir", h.Mkdir)
	s.POST("/files/touch", h.Touch)
	s.POST("/files/archive", h.Archive)
	s.POST("/files/extract", h.Extract)
	s.POST("/files/open", h.Open)
	s.GET("/files/describe", h.Describe)

	s.GET("/jobs", h.ListJobs)
	s.POST("/jobs/size", h.StartSizeScan)
	s.POST("/jobs/search", h.StartNameSearch)
	s.GET("/jobs/:job", h.GetJob)
	s.DELETE("/jobs/:job", h.CancelJob)

	return s
}
