package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cloo-solutions/quarry/internal/api"
	"github.com/cloo-solutions/quarry/internal/index"
	"github.com/cloo-solutions/quarry/internal/service"
)

type IngestService interface {
	Ingest(ctx context.Context, files []service.IngestFile) (*service.IngestResult, error)
}

// IndexStatus exposes the serving snapshot to the status endpoint.
type IndexStatus interface {
	Ready() bool
	Snapshot() *index.Snapshot
}

type IndexHandler struct {
	svc    IngestService
	status IndexStatus
}

func NewIndexHandler(svc IngestService, status IndexStatus) *IndexHandler {
	return &IndexHandler{svc: svc, status: status}
}

type RebuildDocument struct {
	Filename      string `json:"filename"`
	Content       string `json:"content,omitempty"`
	ContentBase64 string `json:"content_base64,omitempty"`
}

type RebuildRequest struct {
	Documents []RebuildDocument `json:"documents"`
}

type RebuildResponse struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

type StatusResponse struct {
	Ready     bool   `json:"ready"`
	BuildID   string `json:"build_id,omitempty"`
	Model     string `json:"model,omitempty"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	BuiltAt   string `json:"built_at,omitempty"`
}

func (h *IndexHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	var req RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Documents) == 0 {
		api.Error(w, http.StatusBadRequest, "documents are required")
		return
	}

	files := make([]service.IngestFile, 0, len(req.Documents))
	for _, doc := range req.Documents {
		if doc.Filename == "" {
			api.Error(w, http.StatusBadRequest, "filename is required")
			return
		}

		var data []byte
		switch {
		case doc.ContentBase64 != "":
			decoded, err := base64.StdEncoding.DecodeString(doc.ContentBase64)
			if err != nil {
				api.Error(w, http.StatusBadRequest, "invalid base64 content for "+doc.Filename)
				return
			}
			data = decoded
		case doc.Content != "":
			data = []byte(doc.Content)
		default:
			api.Error(w, http.StatusBadRequest, "content is required for "+doc.Filename)
			return
		}

		files = append(files, service.IngestFile{Filename: doc.Filename, Data: data})
	}

	result, err := h.svc.Ingest(r.Context(), files)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, RebuildResponse{
		Documents: result.Documents,
		Chunks:    result.Chunks,
	})
}

// Status never errors; an absent index reports ready=false.
func (h *IndexHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Ready: h.status.Ready()}

	if snapshot := h.status.Snapshot(); snapshot != nil {
		manifest := snapshot.Manifest()
		resp.BuildID = manifest.BuildID
		resp.Model = manifest.Model
		resp.Documents = manifest.Documents
		resp.Chunks = snapshot.ChunkCount()
		resp.BuiltAt = manifest.BuiltAt.UTC().Format(time.RFC3339)
	}

	api.Success(w, http.StatusOK, resp)
}
