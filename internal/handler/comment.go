package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examchan-dev/examchan/internal/api"
	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	mw "github.com/examchan-dev/examchan/internal/middleware"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	var body api.CreateCommentRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comment.Create(r.Context(), threadId, domain.CommentCreationData{
		Title:   body.Title,
		Content: body.Content,
		Sender:  user.Id,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
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
	parentId, err := parseId(mux.Vars(r)["comment"], internal_errors.CommentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.CreateCommentRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comment.Reply(r.Context(), threadId, parentId, domain.CommentCreationData{
		Title:   body.Title,
		Content: body.Content,
		Sender:  user.Id,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentId, err := parseId(mux.Vars(r)["comment"], internal_errors.CommentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	likes, err := h.comment.ToggleLike(r.Context(), commentId, user.Id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LikeResponse{Likes: likes})
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentId, err := parseId(mux.Vars(r)["comment"], internal_errors.CommentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.EditCommentRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comment.Edit(r.Context(), commentId, user.Id, body.Title, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
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
	commentId, err := parseId(mux.Vars(r)["comment"], internal_errors.CommentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comment.Delete(r.Context(), threadId, commentId, *user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
