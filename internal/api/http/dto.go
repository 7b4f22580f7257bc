package http

import (
	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

type indexRequest struct {
	Index *int `json:"index" binding:"required"`
}

type itemsRequest struct {
	Items []string `json:"items"`
}

type pasteRequest struct {
	Destination string `json:"destination"`
}

type renameRequest struct {
	Path string `json:"path" binding:"required"`
	Name string `json:"name"`
}

type createRequest struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

type archiveRequest struct {
	Items []string `json:"items"`
	Name  string   `json:"name"`
}

type extractRequest struct {
	Archive string `json:"archive" binding:"required"`
	Name    string `json:"name"`
}

type sizeRequest struct {
	Target string `json:"target"`
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	Root  string `json:"root"`
}

type sessionResponse struct {
	ID string `json:"id"`
	navigationResponse
}

type navigationResponse struct {
	Root       paths.Path `json:"root"`
	Breadcrumb []string   `json:"breadcrumb"`
	AtVolumes  bool       `json:"at_volumes"`
}

func newNavigationResponse(snap navigation.Change) navigationResponse {
	crumbs := snap.Breadcrumb
	if crumbs == nil {
		crumbs = []string{}
	}
	return navigationResponse{Root: snap.Root, Breadcrumb: crumbs, AtVolumes: snap.Root.IsVolumes()}
}

type entriesResponse struct {
	Root    paths.Path         `json:"root"`
	Entries []filesystem.Entry `json:"entries"`
}

type clipboardResponse struct {
	Items []paths.Path   `json:"items"`
	Mode  clipboard.Mode `json:"mode"`
}

type taskResponse struct {
	Source            paths.Path        `json:"source"`
	DestinationParent paths.Path        `json:"destination_parent,omitempty"`
	Status            filesystem.Status `json:"status"`
	FinalPath         paths.Path        `json:"final_path,omitempty"`
	Reason            string            `json:"reason,omitempty"`
	Error             string            `json:"error,omitempty"`
	Kind              string            `json:"kind,omitempty"`
	Severity          types.Severity    `json:"severity"`
}

type batchResponse struct {
	Tasks    []taskResponse `json:"tasks"`
	Severity types.Severity `json:"severity"`
	Failed   int            `json:"failed"`
}

var severityRank = map[types.Severity]int{
	types.SeverityInfo:    0,
	types.SeverityWarning: 1,
	types.SeverityError:   2,
}

// newBatchResponse renders tasks with the worst severity among them
func newBatchResponse(tasks []filesystem.TransferTask) batchResponse {
	resp := batchResponse{Tasks: make([]taskResponse, 0, len(tasks)), Severity: types.SeverityInfo}
	for _, t := range tasks {
		tr := taskResponse{
			Source:            t.Source,
			DestinationParent: t.DestinationParent,
			Status:            t.Status,
			FinalPath:         t.FinalPath,
			Reason:            t.Reason,
			Severity:          t.Severity(),
		}
		if t.Err != nil {
			tr.Error = t.Err.Error()
			tr.Kind = KindName(t.Err)
		}
		if !t.OK() {
			resp.Failed++
		}
		if severityRank[tr.Severity] > severityRank[resp.Severity] {
			resp.Severity = tr.Severity
		}
		resp.Tasks = append(resp.Tasks, tr)
	}
	return resp
}

type pathResponse struct {
	Path paths.Path `json:"path"`
}

type jobResponse struct {
	JobID  string        `json:"job_id"`
	Kind   workers.Kind  `json:"kind"`
	Target paths.Path    `json:"target"`
	Query  string        `json:"query,omitempty"`
	State  workers.State `json:"state"`
}

func newJobResponse(j *workers.Job) jobResponse {
	return jobResponse{
		JobID:  j.ID().String(),
		Kind:   j.Kind(),
		Target: j.Target(),
		Query:  j.Query(),
		State:  j.State(),
	}
}
