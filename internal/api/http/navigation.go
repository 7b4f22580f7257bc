package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// GetNavigation returns the session's root and breadcrumb
func (h *Handlers) GetNavigation(c *gin.Context) {
	c.JSON(http.StatusOK, newNavigationResponse(sessionFrom(c).Nav.Snapshot()))
}

// Enter makes a directory the root
func (h *Handlers) Enter(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	target, err := paths.Parse(req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	h.navigate(c, func(nav *navigation.State) error { return nav.Enter(target) })
}

// Back moves to the parent directory
func (h *Handlers) Back(c *gin.Context) {
	h.navigate(c, func(nav *navigation.State) error {
		nav.GoBack()
		return nil
	})
}

// Breadcrumb jumps to a breadcrumb segment
func (h *Handlers) Breadcrumb(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.navigate(c, func(nav *navigation.State) error { return nav.JumpToBreadcrumbSegment(*req.Index) })
}

// Goto sets the root from typed text
func (h *Handlers) Goto(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.navigate(c, func(nav *navigation.State) error { return nav.SetRootFromTypedPath(req.Path) })
}

// Home returns to the volume list
func (h *Handlers) Home(c *gin.Context) {
	h.navigate(c, func(nav *navigation.State) error {
		nav.Home()
		return nil
	})
}

func (h *Handlers) navigate(c *gin.Context, fn func(nav *navigation.State) error) {
	s := sessionFrom(c)
	if err := s.Do(func() error { return fn(s.Nav) }); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newNavigationResponse(s.Nav.Snapshot()))
}

// Entries lists the current root. Query parameters: hidden=true shows
// dot-files, pattern filters names with a glob.
func (h *Handlers) Entries(c *gin.Context) {
	opts := navigation.ListOptions{Pattern: c.Query("pattern")}
	if raw := c.Query("hidden"); raw != "" {
		hidden, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		opts.ShowHidden = hidden
	}

	s := sessionFrom(c)
	var resp entriesResponse
	err := s.Do(func() error {
		resp.Root = s.Nav.Root()
		var err error
		resp.Entries, err = s.Nav.List(c.Request.Context(), opts)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if resp.Entries == nil {
		resp.Entries = []filesystem.Entry{}
	}
	c.JSON(http.StatusOK, resp)
}
