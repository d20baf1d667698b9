package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/examchan-dev/examchan/internal/api"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

func (h *Handler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var body api.CreateFacultyRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	facultyId, err := h.catalog.CreateFaculty(r.Context(), body.Name, body.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%q", facultyId.Hex())
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var body api.CreateDepartmentRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	facultyId, err := parseId(body.Faculty, internal_errors.FacultyNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	departmentId, err := h.catalog.CreateDepartment(r.Context(), facultyId, body.Name, body.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%q", departmentId.Hex())
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var body api.CreateCourseRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	departmentId, err := parseId(body.Department, internal_errors.DepartmentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	courseId, err := h.catalog.CreateCourse(r.Context(), departmentId, body.Name, body.Number, body.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%q", courseId.Hex())
}

func (h *Handler) ListFaculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.catalog.Faculties(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, faculties)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.catalog.Departments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.Courses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) DeleteFaculty(w http.ResponseWriter, r *http.Request) {
	facultyId, err := parseId(mux.Vars(r)["faculty"], internal_errors.FacultyNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.DeleteFaculty(r.Context(), facultyId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	departmentId, err := parseId(mux.Vars(r)["department"], internal_errors.DepartmentNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.DeleteDepartment(r.Context(), departmentId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseId, err := parseId(mux.Vars(r)["course"], internal_errors.CourseNotFound())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.DeleteCourse(r.Context(), courseId); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
