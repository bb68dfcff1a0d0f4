package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/printmate/printmate/internal/ctxkeys"
	"github.com/printmate/printmate/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Recent serves GET /api/files/recent?userId=&cursor=&limit=.
func (h *FileHandler) Recent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID := strings.TrimSpace(q.Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	identity := ctxkeys.Identity(r.Context())
	if identity == nil || identity.ID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "You can only list your own files")
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = n
	}

	page, err := h.fileService.ListRecent(r.Context(), userID, q.Get("cursor"), limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid cursor")
		default:
			slog.Error("failed to list recent files", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "storage_unavailable", "Failed to fetch recent files")
		}
		return
	}

	writeJSON(w, http.StatusOK, page)
}
