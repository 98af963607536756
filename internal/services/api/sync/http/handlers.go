// Package http provides http transport for repository sync
package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/url"
	"strconv"

	"aardsync/internal/modkit/httpkit"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/services/api/sync/domain"
	svc "aardsync/internal/services/api/sync/service"

	"github.com/google/uuid"
)

// Register mounts the /sync endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON(r, "/verify", h.verify)
	httpkit.PostJSON(r, "/read", h.read)
	httpkit.PostJSON(r, "/scan", h.scan)
	httpkit.PostJSON(r, "/import", h.importRepo)
	httpkit.PutJSON(r, "/files", h.putFile)
	httpkit.PutJSON(r, "/records", h.putRecord)
	httpkit.Get(r, "/runs", h.runs)
}

// RegisterRecords mounts the /records endpoints
func RegisterRecords(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.countRecords)
	httpkit.Get(r, "/{id}", h.getRecord)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /sync/verify Sync syncVerify
// @Summary Check that a repository and branch are reachable
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body domain.RepoInput true "Repository"
// @Success 200 {object} domain.VerifyOutput "ok"
// @Failure 404 {object} httpkit.Envelope "repository or branch not found"
// @Router /sync/verify [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.RepoInput) (any, error) {
	return h.svc.Verify(r.Context(), in)
}

// swagger:route POST /sync/read Sync syncRead
// @Summary Read one JSON file by path or blob sha
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body domain.ReadInput true "File"
// @Success 200 {object} object "file content"
// @Router /sync/read [post]
func (h *handlers) read(r *stdhttp.Request, in domain.ReadInput) (any, error) {
	return h.svc.Read(r.Context(), in)
}

// swagger:route POST /sync/scan Sync syncScan
// @Summary Find the metadata files of a repository
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body domain.RepoInput true "Repository"
// @Success 200 {object} domain.ScanResult "ok"
// @Router /sync/scan [post]
func (h *handlers) scan(r *stdhttp.Request, in domain.RepoInput) (any, error) {
	return h.svc.Scan(r.Context(), in)
}

// swagger:route POST /sync/import Sync syncImport
// @Summary Scan a repository and import its records
// @Description A cancelled run answers 200 with cancelled=true. A failed commit
// @Description answers with the error and the partial report under data
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body domain.RepoInput true "Repository"
// @Success 200 {object} domain.ImportReport "ok"
// @Router /sync/import [post]
func (h *handlers) importRepo(r *stdhttp.Request, in domain.RepoInput) (any, error) {
	rep, err := h.svc.Import(r.Context(), in)
	switch {
	case err == nil:
		return rep, nil
	case rep.RunID == uuid.Nil:
		// failed before the run started, nothing to report
		return nil, err
	case rep.Cancelled && onlyCancelled(err):
		return rep, nil
	default:
		return nil, httpkit.WithData(err, rep)
	}
}

// onlyCancelled reports a context error with no coded failure joined to it
func onlyCancelled(err error) bool {
	if _, coded := perr.As(err); coded {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// swagger:route PUT /sync/files Sync syncPutFile
// @Summary Create or replace one file on the branch
// @Tags Sync
// @Accept json
// @Param payload body domain.PutFileInput true "File"
// @Success 204 "written"
// @Failure 409 {object} httpkit.Envelope "revision changed twice"
// @Router /sync/files [put]
func (h *handlers) putFile(r *stdhttp.Request, in domain.PutFileInput) (any, error) {
	if err := h.svc.PutFile(r.Context(), in); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route PUT /sync/records Sync syncPutRecord
// @Summary Write one record to metadata-aardvark
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body domain.PutRecordInput true "Record"
// @Success 200 {object} domain.PutRecordOutput "ok"
// @Router /sync/records [put]
func (h *handlers) putRecord(r *stdhttp.Request, in domain.PutRecordInput) (any, error) {
	return h.svc.PutRecord(r.Context(), in)
}

// swagger:route GET /sync/runs Sync syncRuns
// @Summary Recent import runs, newest first
// @Tags Sync
// @Produce json
// @Param limit query int false "max rows (default 20, at most 500)"
// @Success 200 {array} domain.RunRow "ok"
// @Router /sync/runs [get]
func (h *handlers) runs(r *stdhttp.Request) (any, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a non negative integer"), "limit")
		}
		limit = n
	}
	return h.svc.Runs(r.Context(), limit)
}

// swagger:route GET /records/{id} Records recordGet
// @Summary One stored record
// @Tags Records
// @Produce json
// @Param id path string true "record id"
// @Success 200 {object} domain.StoredRecord "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /records/{id} [get]
func (h *handlers) getRecord(r *stdhttp.Request) (any, error) {
	id, err := url.PathUnescape(httpkit.Param(r, "id"))
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("invalid record id"), "id")
	}
	return h.svc.GetRecord(r.Context(), id)
}

// swagger:route GET /records Records recordCount
// @Summary Number of stored records
// @Tags Records
// @Produce json
// @Success 200 {object} domain.CountOutput "ok"
// @Router /records [get]
func (h *handlers) countRecords(r *stdhttp.Request) (any, error) {
	return h.svc.CountRecords(r.Context())
}
