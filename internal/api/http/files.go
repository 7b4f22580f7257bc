package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Delete removes items permanently
func (h *Handlers) Delete(c *gin.Context) {
	h.batch(c, (*filesystem.Engine).DeletePermanently)
}

// Recycle moves items to the trash
func (h *Handlers) Recycle(c *gin.Context) {
	h.batch(c, (*filesystem.Engine).MoveToRecycle)
}

func (h *Handlers) batch(c *gin.Context, op func(*filesystem.Engine, context.Context, []paths.Path) []filesystem.TransferTask) {
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
	var tasks []filesystem.TransferTask
	_ = s.Do(func() error {
		tasks = op(s.Engine(), c.Request.Context(), items)
		return nil
	})
	c.JSON(http.StatusOK, newBatchResponse(tasks))
}

// Rename renames one item within its parent
func (h *Handlers) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := paths.Parse(req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResult(c, http.StatusOK, func(ctx context.Context, e *filesystem.Engine) (paths.Path, error) {
		return e.Rename(ctx, item, req.Name)
	})
}

// Mkdir creates a directory in parent, or in the current root
func (h *Handlers) Mkdir(c *gin.Context) {
	h.create(c, (*filesystem.Engine).CreateDirectory)
}

// Touch creates an empty file in parent, or in the current root
func (h *Handlers) Touch(c *gin.Context) {
	h.create(c, (*filesystem.Engine).CreateFile)
}

func (h *Handlers) create(c *gin.Context, op func(*filesystem.Engine, context.Context, paths.Path, string) (paths.Path, error)) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s := sessionFrom(c)
	h.pathResult(c, http.StatusCreated, func(ctx context.Context, e *filesystem.Engine) (paths.Path, error) {
		parent, err := parseOr(req.Parent, s.Nav.Root())
		if err != nil {
			return "", err
		}
		return op(e, ctx, parent, req.Name)
	})
}

// Archive compresses items into a zip beside the first one
func (h *Handlers) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	items, err := parseItems(req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResult(c, http.StatusCreated, func(ctx context.Context, e *filesystem.Engine) (paths.Path, error) {
		return e.Archive(ctx, items, req.Name)
	})
}

// Extract unpacks an archive into a new directory beside it
func (h *Handlers) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	archive, err := paths.Parse(req.Archive)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResult(c, http.StatusCreated, func(ctx context.Context, e *filesystem.Engine) (paths.Path, error) {
		return e.Extract(ctx, archive, req.Name)
	})
}

// Open hands a file to the desktop's default application
func (h *Handlers) Open(c *gin.Context) {
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
	if err := sessionFrom(c).Engine().Open(c.Request.Context(), target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, pathResponse{Path: target})
}

// Describe returns one entry's metadata, MIME type included
func (h *Handlers) Describe(c *gin.Context) {
	target, err := paths.Parse(c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := sessionFrom(c).Engine().Describe(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handlers) pathResult(c *gin.Context, status int, op func(ctx context.Context, e *filesystem.Engine) (paths.Path, error)) {
	s := sessionFrom(c)
	var result paths.Path
	err := s.Do(func() error {
		var err error
		result, err = op(c.Request.Context(), s.Engine())
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, pathResponse{Path: result})
}
