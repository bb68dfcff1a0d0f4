package handler

import (
	"net/http"

	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/service"
)

type HelpHandler struct {
	helpService *service.HelpService
}

func NewHelpHandler(helpService *service.HelpService) *HelpHandler {
	return &HelpHandler{helpService: helpService}
}

func (h *HelpHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Pages []*model.HelpPage `json:"pages"`
	}{Pages: h.helpService.Pages()})
}

func (h *HelpHandler) Show(w http.ResponseWriter, r *http.Request) {
	page, err := h.helpService.Page(r.PathValue("slug"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Help page not found")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
