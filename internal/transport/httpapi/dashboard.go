package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.dashboards.Build(r.Context(), safety.RoleFilter(r.URL.Query().Get("role")))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.records.ListRoles(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

// importSheet accepts a multipart upload in field "file" and an optional "sheet" name.
func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(ctx, w, fmt.Errorf("%w: file upload error: %v", errBadRequest, err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(ctx, w, fmt.Errorf("%w: multipart field \"file\" is required", errBadRequest))
		return
	}
	defer file.Close()

	logging.Info(ctx, "import upload received", slog.String("filename", header.Filename), slog.Int64("size", header.Size))

	result, err := h.importer.ImportReader(ctx, file, header.Filename, r.FormValue("sheet"))
	if err != nil {
		respondError(ctx, w, errs.Wrapf(err, "import %s", header.Filename))
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) lastImport(w http.ResponseWriter, r *http.Request) {
	result, found, err := h.importer.LastSummary(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if !found {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "no import has run yet"})
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id uint64) error) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
