package handler

import (
	"errors"
	"net/http"

	"github.com/printmate/printmate/internal/ctxkeys"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/printer"
	"github.com/printmate/printmate/internal/repository"
	"github.com/printmate/printmate/internal/service"
)

const printFailedMessage = "Failed to send print job"

type PrintHandler struct {
	printService *service.PrintService
}

func NewPrintHandler(printService *service.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// Submit serves POST /api/print with {fileUrl} or {fileId}.
func (h *PrintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.PrintRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	identity := ctxkeys.Identity(r.Context())
	ack, err := h.printService.Print(r.Context(), identity.ID, req)
	if err != nil {
		var backendErr *printer.BackendError
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "invalid_request", "A valid file URL is required")
		case errors.Is(err, repository.ErrFileNotFound):
			writeError(w, http.StatusNotFound, "not_found", "File not found")
		case errors.As(err, &backendErr) && backendErr.Status >= 400:
			writeError(w, backendErr.Status, "print_rejected", backendErr.Message)
		default:
			writeError(w, http.StatusBadGateway, "print_failed", printFailedMessage)
		}
		return
	}

	writeJSON(w, http.StatusOK, ack)
}
