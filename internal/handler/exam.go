package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/examchan-dev/examchan/internal/api"
	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	mw "github.com/examchan-dev/examchan/internal/middleware"
)

// maxExamUploadSize bounds the multipart form, file included.
const maxExamUploadSize = 32 << 20

// CreateExam accepts a multipart form with a "json" metadata field and a
// "file" part holding the exam PDF.
func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxExamUploadSize); err != nil {
		writeError(w, internal_errors.MissingFields("Invalid multipart form"))
		return
	}

	var body api.CreateExamRequest
	if err := decodeValidate(io.NopCloser(strings.NewReader(r.FormValue("json"))), &body); err != nil {
		writeError(w, err)
		return
	}

	courseId, err := parseId(body.Course, internal_errors.CourseNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, internal_errors.MissingFields("Exam file is required"))
		return
	}
	defer file.Close()

	creation := domain.ExamCreationData{
		Course:    courseId,
		Year:      body.Year,
		Semester:  body.Semester,
		Term:      body.Term,
		Type:      body.Type,
		Grade:     body.Grade,
		Lecturers: body.Lecturers,
		Tags:      body.Tags,
		Uploader:  user.Id,
	}

	examId, err := h.exam.Create(r.Context(), creation, file)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%q", examId.Hex())
}

func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	examId, err := parseId(mux.Vars(r)["exam"], internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	exam, err := h.exam.Get(r.Context(), examId)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ExamResponse{Exam: exam})
}

func (h *Handler) ListExams(w http.ResponseWriter, r *http.Request) {
	courseId, err := parseId(r.URL.Query().Get("course"), internal_errors.CourseNotFound())
	if err != nil {
		writeError(w, internal_errors.MissingFields("Query parameter 'course' is required"))
		return
	}

	exams, err := h.exam.List(r.Context(), courseId, parsePage(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if exams == nil {
		exams = []domain.Exam{}
	}

	writeJSON(w, http.StatusOK, api.ExamListResponse{Exams: exams})
}

// ExamFile redirects to the short-lived retrieval url of the stored file.
func (h *Handler) ExamFile(w http.ResponseWriter, r *http.Request) {
	examId, err := parseId(mux.Vars(r)["exam"], internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := h.exam.FileURL(r.Context(), examId)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) DeleteExam(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	examId, err := parseId(mux.Vars(r)["exam"], internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.exam.Delete(r.Context(), examId, *user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RateExam(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	examId, err := parseId(mux.Vars(r)["exam"], internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.RateExamRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	exam, err := h.exam.Rate(r.Context(), examId, user.Id, body.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ExamResponse{Exam: exam})
}

func (h *Handler) FavoriteExam(w http.ResponseWriter, r *http.Request) {
	h.updateFavorite(w, r, true)
}

func (h *Handler) UnfavoriteExam(w http.ResponseWriter, r *http.Request) {
	h.updateFavorite(w, r, false)
}

func (h *Handler) updateFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	examId, err := parseId(mux.Vars(r)["exam"], internal_errors.ExamNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	var favorites []domain.ExamId
	if favorite {
		favorites, err = h.exam.Favorite(r.Context(), examId, user.Id)
	} else {
		favorites, err = h.exam.Unfavorite(r.Context(), examId, user.Id)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FavoritesResponse{FavoriteExams: favorites})
}
