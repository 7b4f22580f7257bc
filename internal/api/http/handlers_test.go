//go:build !windows

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/filecore/internal/domain/session"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/providers/trash"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

type recordingTrash struct {
	put []paths.Path
}

func (r *recordingTrash) Put(p paths.Path) error {
	r.put = append(r.put, p)
	return os.RemoveAll(p.OS())
}

type recordingOpener struct {
	opened []paths.Path
}

func (r *recordingOpener) Open(_ context.Context, p paths.Path) error {
	r.opened = append(r.opened, p)
	return nil
}

type fixedLauncher bool

func (f fixedLauncher) Suspended() bool { return bool(f) }

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	root   paths.Path
	id     string
	trash  *recordingTrash
	opener *recordingOpener
}

func newTestAPI(t *testing.T, opts ...Option) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	root := paths.FromOS(dir)

	api := &testAPI{t: t, root: root, trash: &recordingTrash{}, opener: &recordingOpener{}}
	engine := filesystem.New(filesystem.Options{Trash: api.trash, Opener: api.opener})
	sessions := session.NewManager(engine, session.Options{})
	t.Cleanup(sessions.CloseAll)

	api.router = gin.New()
	NewHandlers(sessions, root, nil, opts...).Register(api.router)

	var created sessionResponse
	api.do(http.MethodPost, "/sessions", nil, http.StatusCreated, &created)
	require.Equal(t, root, created.Root)
	api.id = created.ID
	return api
}

// do sends a request and decodes the response into out when out is non-nil
func (a *testAPI) do(method, path string, body any, wantStatus int, out any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	require.Equal(a.t, wantStatus, w.Code, "%s %s: %s", method, path, w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func (a *testAPI) url(suffix string) string {
	return "/sessions/" + a.id + suffix
}

func (a *testAPI) write(rel, content string) paths.Path {
	a.t.Helper()
	p := a.root.Join(rel)
	require.NoError(a.t, os.MkdirAll(filepath.Dir(p.OS()), 0o755))
	require.NoError(a.t, os.WriteFile(p.OS(), []byte(content), 0o644))
	return p
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrInvalidName, http.StatusBadRequest},
		{fmt.Errorf("x: %w", types.ErrInvalidPath), http.StatusBadRequest},
		{types.ErrEmptySelection, http.StatusBadRequest},
		{types.ErrNotFound, http.StatusNotFound},
		{os.ErrNotExist, http.StatusNotFound},
		{types.ErrAlreadyExists, http.StatusConflict},
		{types.ErrPermissionDenied, http.StatusForbidden},
		{types.ErrForbidden, http.StatusForbidden},
		{types.ErrNotSupported, http.StatusNotImplemented},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
	assert.Equal(t, "already_exists", KindName(types.ErrAlreadyExists))
	assert.Equal(t, "internal", KindName(fmt.Errorf("boom")))
}

func TestSessionLookup(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/sessions/not-a-uuid/navigation", nil, http.StatusBadRequest, nil)
	api.do(http.MethodGet, "/sessions/00000000-0000-0000-0000-000000000000/navigation", nil, http.StatusNotFound, nil)

	api.do(http.MethodDelete, api.url(""), nil, http.StatusNoContent, nil)
	api.do(http.MethodGet, api.url("/navigation"), nil, http.StatusNotFound, nil)
}

func TestNavigationRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.write("docs/a.txt", "a")
	api.write(".secret", "s")

	var nav navigationResponse
	api.do(http.MethodPost, api.url("/navigation/enter"), pathRequest{Path: api.root.Join("docs").String()}, http.StatusOK, &nav)
	assert.Equal(t, api.root.Join("docs"), nav.Root)

	api.do(http.MethodPost, api.url("/navigation/back"), nil, http.StatusOK, &nav)
	assert.Equal(t, api.root, nav.Root)

	var entries entriesResponse
	api.do(http.MethodGet, api.url("/entries"), nil, http.StatusOK, &entries)
	require.Len(t, entries.Entries, 1)
	assert.Equal(t, "docs", entries.Entries[0].Name)

	api.do(http.MethodGet, api.url("/entries?hidden=true"), nil, http.StatusOK, &entries)
	assert.Len(t, entries.Entries, 2)
	api.do(http.MethodGet, api.url("/entries?hidden=maybe"), nil, http.StatusBadRequest, nil)

	zero := 0
	api.do(http.MethodPost, api.url("/navigation/breadcrumb"), indexRequest{Index: &zero}, http.StatusOK, &nav)
	assert.Equal(t, paths.Path("/"), nav.Root)
	api.do(http.MethodPost, api.url("/navigation/breadcrumb"), map[string]int{"index": 99}, http.StatusBadRequest, nil)
	api.do(http.MethodPost, api.url("/navigation/breadcrumb"), map[string]any{}, http.StatusBadRequest, nil)

	api.do(http.MethodPost, api.url("/navigation/goto"), pathRequest{Path: api.root.String() + "/docs/"}, http.StatusOK, &nav)
	assert.Equal(t, api.root.Join("docs"), nav.Root)
	api.do(http.MethodPost, api.url("/navigation/goto"), pathRequest{Path: api.root.Join("docs", "a.txt").String()}, http.StatusBadRequest, nil)

	api.do(http.MethodPost, api.url("/navigation/home"), nil, http.StatusOK, &nav)
	assert.True(t, nav.AtVolumes)
	assert.Empty(t, nav.Breadcrumb)

	api.do(http.MethodPost, api.url("/navigation/enter"), pathRequest{Path: api.root.Join("missing").String()}, http.StatusNotFound, nil)
}

func TestClipboardPasteFlow(t *testing.T) {
	api := newTestAPI(t)
	src := api.write("src/report.txt", "data")
	dst := api.root.Join("dst")
	require.NoError(t, os.Mkdir(dst.OS(), 0o755))

	var cb clipboardResponse
	api.do(http.MethodPost, api.url("/clipboard/copy"), itemsRequest{Items: []string{src.String(), src.String()}}, http.StatusOK, &cb)
	assert.Equal(t, []paths.Path{src}, cb.Items)
	assert.Equal(t, "copy", string(cb.Mode))

	var batch batchResponse
	api.do(http.MethodPost, api.url("/clipboard/paste"), pasteRequest{Destination: dst.String()}, http.StatusOK, &batch)
	require.Len(t, batch.Tasks, 1)
	assert.Equal(t, dst.Join("report.txt"), batch.Tasks[0].FinalPath)
	assert.Equal(t, types.SeverityInfo, batch.Severity)

	api.do(http.MethodPost, api.url("/clipboard/paste"), pasteRequest{Destination: dst.String()}, http.StatusOK, &batch)
	assert.Equal(t, dst.Join("report - copy.txt"), batch.Tasks[0].FinalPath)

	api.do(http.MethodPost, api.url("/clipboard/paste"), pasteRequest{Destination: dst.String()}, http.StatusOK, &batch)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, "already_exists", batch.Tasks[0].Kind)
	assert.Equal(t, types.SeverityError, batch.Severity)

	// Paste without a destination lands in the current root
	api.do(http.MethodPost, api.url("/clipboard/cut"), itemsRequest{Items: []string{src.String()}}, http.StatusOK, &cb)
	api.do(http.MethodPost, api.url("/navigation/enter"), pathRequest{Path: api.root.String()}, http.StatusOK, nil)
	api.do(http.MethodPost, api.url("/clipboard/paste"), nil, http.StatusOK, &batch)
	assert.Equal(t, api.root.Join("report.txt"), batch.Tasks[0].FinalPath)

	api.do(http.MethodGet, api.url("/clipboard"), nil, http.StatusOK, &cb)
	assert.Empty(t, cb.Items, "cut resets after a clean paste")
	api.do(http.MethodPost, api.url("/clipboard/paste"), nil, http.StatusBadRequest, nil)
}

func TestFileRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, api.url("/navigation/enter"), pathRequest{Path: api.root.String()}, http.StatusOK, nil)

	var created pathResponse
	api.do(http.MethodPost, api.url("/files/mkdir"), createRequest{Name: "new"}, http.StatusCreated, &created)
	assert.Equal(t, api.root.Join("new"), created.Path)
	api.do(http.MethodPost, api.url("/files/mkdir"), createRequest{Name: "new"}, http.StatusConflict, nil)
	api.do(http.MethodPost, api.url("/files/mkdir"), createRequest{Name: "a/b"}, http.StatusBadRequest, nil)

	api.do(http.MethodPost, api.url("/files/touch"), createRequest{Parent: created.Path.String(), Name: "f.txt"}, http.StatusCreated, &created)
	assert.Equal(t, api.root.Join("new", "f.txt"), created.Path)

	var renamed pathResponse
	api.do(http.MethodPost, api.url("/files/rename"), renameRequest{Path: created.Path.String(), Name: "g.txt"}, http.StatusOK, &renamed)
	assert.Equal(t, api.root.Join("new", "g.txt"), renamed.Path)

	var entry filesystem.Entry
	api.do(http.MethodGet, api.url("/files/describe?path="+renamed.Path.String()), nil, http.StatusOK, &entry)
	assert.Equal(t, "g.txt", entry.Name)
	assert.Equal(t, filesystem.KindFile, entry.Kind)

	api.do(http.MethodPost, api.url("/files/open"), pathRequest{Path: renamed.Path.String()}, http.StatusAccepted, nil)
	assert.Equal(t, []paths.Path{renamed.Path}, api.opener.opened)
	api.do(http.MethodPost, api.url("/files/open"), pathRequest{Path: api.root.Join("nope").String()}, http.StatusNotFound, nil)

	var archive pathResponse
	api.do(http.MethodPost, api.url("/files/archive"), archiveRequest{Items: []string{api.root.Join("new").String()}}, http.StatusCreated, &archive)
	assert.Equal(t, api.root.Join("new.zip"), archive.Path)

	var extracted pathResponse
	api.do(http.MethodPost, api.url("/files/extract"), extractRequest{Archive: archive.Path.String(), Name: "out"}, http.StatusCreated, &extracted)
	_, err := os.Stat(extracted.Path.Join("new", "g.txt").OS())
	assert.NoError(t, err)

	var batch batchResponse
	api.do(http.MethodPost, api.url("/files/recycle"), itemsRequest{Items: []string{archive.Path.String()}}, http.StatusOK, &batch)
	assert.Equal(t, []paths.Path{archive.Path}, api.trash.put)

	api.do(http.MethodPost, api.url("/files/delete"), itemsRequest{Items: []string{extracted.Path.String(), api.root.Join("ghost").String()}}, http.StatusOK, &batch)
	require.Len(t, batch.Tasks, 2)
	assert.Equal(t, filesystem.StatusCompleted, batch.Tasks[0].Status)
	assert.Equal(t, filesystem.StatusSkipped, batch.Tasks[1].Status)

	api.do(http.MethodPost, api.url("/files/delete"), itemsRequest{Items: []string{"relative"}}, http.StatusBadRequest, nil)
	api.do(http.MethodPost, api.url("/navigation/home"), nil, http.StatusOK, nil)
	api.do(http.MethodPost, api.url("/files/touch"), createRequest{Name: "x"}, http.StatusForbidden, nil)
}

func TestJobRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.write("a.bin", "12345")

	var job jobResponse
	api.do(http.MethodPost, api.url("/jobs/size"), sizeRequest{Target: api.root.Join("a.bin").String()}, http.StatusAccepted, &job)
	assert.Equal(t, "size_scan", string(job.Kind))

	require.Eventually(t, func() bool {
		var got jobResponse
		api.do(http.MethodGet, api.url("/jobs/"+job.JobID), nil, http.StatusOK, &got)
		return got.State == "completed"
	}, 5*time.Second, 10*time.Millisecond)

	var list struct {
		Jobs []jobResponse `json:"jobs"`
	}
	api.do(http.MethodGet, api.url("/jobs"), nil, http.StatusOK, &list)
	assert.Len(t, list.Jobs, 1)

	api.do(http.MethodPost, api.url("/jobs/search"), searchRequest{Query: "a", Root: api.root.String()}, http.StatusAccepted, &job)
	assert.Equal(t, "name_search", string(job.Kind))
	assert.Equal(t, "a", job.Query)
	api.do(http.MethodDelete, api.url("/jobs/"+job.JobID), nil, http.StatusOK, nil)

	api.do(http.MethodPost, api.url("/jobs/search"), map[string]string{}, http.StatusBadRequest, nil)
	api.do(http.MethodDelete, api.url("/jobs/job_missing"), nil, http.StatusNotFound, nil)
}

func TestTrashRoute(t *testing.T) {
	t.Run("lists recycled items", func(t *testing.T) {
		xdg, err := trash.NewXDG(t.TempDir(), logging.NewNop())
		require.NoError(t, err)
		api := newTestAPI(t, WithTrash(xdg))
		victim := api.write("old.txt", "bye")
		require.NoError(t, xdg.Put(victim))

		var got struct {
			Items []trash.Item `json:"items"`
		}
		api.do(http.MethodGet, "/trash", nil, http.StatusOK, &got)
		require.Len(t, got.Items, 1)
		assert.Equal(t, victim, got.Items[0].OriginalPath)
		assert.Equal(t, "old.txt", got.Items[0].Name)
	})

	t.Run("empty bin", func(t *testing.T) {
		xdg, err := trash.NewXDG(t.TempDir(), logging.NewNop())
		require.NoError(t, err)
		api := newTestAPI(t, WithTrash(xdg))

		w := api.do(http.MethodGet, "/trash", nil, http.StatusOK, nil)
		assert.JSONEq(t, `{"items":[]}`, w.Body.String())
	})

	t.Run("no recycle bin", func(t *testing.T) {
		api := newTestAPI(t)
		api.do(http.MethodGet, "/trash", nil, http.StatusNotImplemented, nil)
	})
}

func TestHealthReportsLauncher(t *testing.T) {
	var health map[string]any
	newTestAPI(t).do(http.MethodGet, "/health", nil, http.StatusOK, &health)
	assert.NotContains(t, health, "launcher_suspended")

	health = nil
	newTestAPI(t, WithLauncher(fixedLauncher(true))).do(http.MethodGet, "/health", nil, http.StatusOK, &health)
	assert.Equal(t, true, health["launcher_suspended"])
}
