package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/quarry/internal/api"
	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SourceArchive resolves an archived source document to a presigned URL.
type SourceArchive interface {
	GetDownloadURL(ctx context.Context, sourceID string) (string, error)
}

type SourceHandler struct {
	archive SourceArchive
}

func NewSourceHandler(archive SourceArchive) *SourceHandler {
	return &SourceHandler{archive: archive}
}

type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

func (h *SourceHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if h.archive == nil {
		api.HandleError(w, domain.ErrArchiveNotConfigured)
		return
	}

	downloadURL, err := h.archive.GetDownloadURL(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DownloadURLResponse{
		DownloadURL: downloadURL,
	})
}
