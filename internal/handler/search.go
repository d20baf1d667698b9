package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examchan-dev/examchan/internal/api"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.search.Search(r.Context(), mux.Vars(r)["query"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.SearchResponse{
		Exams:   result.Exams,
		Threads: result.Threads,
	})
}
