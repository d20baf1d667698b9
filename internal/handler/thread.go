package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examchan-dev/examchan/internal/api"
	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	mw "github.com/examchan-dev/examchan/internal/middleware"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateThreadRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	examId, err := parseId(body.Exam, internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	creation := domain.ThreadCreationData{
		Title:   body.Title,
		Exam:    examId,
		Creator: user.Id,
		Tags:    body.Tags,
		OpComment: domain.CommentCreationData{
			Title:   body.OpComment.Title,
			Content: body.OpComment.Content,
			Sender:  user.Id,
		},
	}

	threadId, err := h.thread.Create(r.Context(), creation)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%q", threadId.Hex())
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseId(mux.Vars(r)["thread"], internal_errors.ThreadNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	thread, err := h.thread.Get(r.Context(), threadId)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ThreadResponse{Thread: thread})
}

func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	examId, err := parseId(r.URL.Query().Get("exam"), internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, internal_errors.MissingFields("Query parameter 'exam' is required"))
		return
	}

	threads, err := h.thread.List(r.Context(), examId, parsePage(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if threads == nil {
		threads = []domain.ThreadMetadata{}
	}

	writeJSON(w, http.StatusOK, api.ThreadListResponse{Threads: threads})
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadId, err := parseId(mux.Vars(r)["thread"], internal_errors.ThreadNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.thread.Delete(r.Context(), threadId, *user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ToggleClosed(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadId, err := parseId(mux.Vars(r)["thread"], internal_errors.ThreadNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	closed, err := h.thread.ToggleClosed(r.Context(), threadId, *user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ClosedResponse{IsClosed: closed})
}

func (h *Handler) EditTags(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadId, err := parseId(mux.Vars(r)["thread"], internal_errors.ThreadNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.EditTagsRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	tags, err := h.thread.EditTags(r.Context(), threadId, *user, body.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.Tags{"tags": tags})
}

func (h *Handler) StarThread(w http.ResponseWriter, r *http.Request) {
	h.updateStar(w, r, true)
}

func (h *Handler) UnstarThread(w http.ResponseWriter, r *http.Request) {
	h.updateStar(w, r, false)
}

func (h *Handler) updateStar(w http.ResponseWriter, r *http.Request, star bool) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadId, err := parseId(mux.Vars(r)["thread"], internal_errors.ThreadNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var starred []domain.ThreadId
	if star {
		starred, err = h.thread.Star(r.Context(), threadId, user.Id)
	} else {
		starred, err = h.thread.Unstar(r.Context(), threadId, user.Id)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.StarredResponse{StarredThreads: starred})
}
