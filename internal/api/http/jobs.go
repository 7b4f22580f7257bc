package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
)

// StartSizeScan totals a target's size in the background. An empty target
// scans the current root.
func (h *Handlers) StartSizeScan(c *gin.Context) {
	var req sizeRequest
	if !bindOptional(c, &req) {
		return
	}
	s := sessionFrom(c)
	target, err := parseOr(req.Target, s.Nav.Root())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, newJobResponse(s.Jobs.StartSizeScan(target)))
}

// StartNameSearch streams matches for query below root, or the current root
func (h *Handlers) StartNameSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s := sessionFrom(c)
	root, err := parseOr(req.Root, s.Nav.Root())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, newJobResponse(s.Jobs.StartNameSearch(req.Query, root)))
}

// ListJobs lists the session's tracked jobs
func (h *Handlers) ListJobs(c *gin.Context) {
	jobs := sessionFrom(c).Jobs.Jobs()
	resp := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		resp = append(resp, newJobResponse(j))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": resp})
}

// GetJob reports one job's state
func (h *Handlers) GetJob(c *gin.Context) {
	job, ok := h.job(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newJobResponse(job))
}

// CancelJob cancels a running job
func (h *Handlers) CancelJob(c *gin.Context) {
	job, ok := h.job(c)
	if !ok {
		return
	}
	job.Cancel()
	c.JSON(http.StatusOK, newJobResponse(job))
}

func (h *Handlers) job(c *gin.Context) (*workers.Job, bool) {
	job, ok := sessionFrom(c).Jobs.Get(id.JobID(c.Param("job")))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "job not found", Kind: "not_found", Severity: "error"})
		return nil, false
	}
	return job, true
}
