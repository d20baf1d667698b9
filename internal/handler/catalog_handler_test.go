package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

func TestCreateFacultyHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, s := newTestHandler()
		newId := primitive.NewObjectID()
		s.catalog.MockCreateFaculty = func(name string, tags domain.Tags) (domain.FacultyId, error) {
			assert.Equal(t, "מדעים מדויקים", name)
			assert.Equal(t, domain.Tags{"פיזיקה"}, tags)
			return newId, nil
		}

		body := []byte(`{"name": "מדעים מדויקים", "tags": ["פיזיקה"]}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/faculties", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, fmt.Sprintf("%q", newId.Hex()), rr.Body.String())
	})

	t.Run("Duplicate name conflicts", func(t *testing.T) {
		h, s := newTestHandler()
		s.catalog.MockCreateFaculty = func(name string, tags domain.Tags) (domain.FacultyId, error) {
			return domain.FacultyId{}, internal_errors.Conflict("Faculty already exists")
		}

		body := []byte(`{"name": "מדעים מדויקים"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/faculties", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Missing name rejected", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/faculties", bytes.NewReader([]byte(`{}`)))
		rr := doRequest(t, h, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreateDepartmentHandler(t *testing.T) {
	facultyId := primitive.NewObjectID()

	t.Run("Success forwards faculty id", func(t *testing.T) {
		h, s := newTestHandler()
		newId := primitive.NewObjectID()
		s.catalog.MockCreateDepartment = func(faculty domain.FacultyId, name string, tags domain.Tags) (domain.DepartmentId, error) {
			assert.Equal(t, facultyId, faculty)
			assert.Equal(t, "מתמטיקה", name)
			return newId, nil
		}

		body := []byte(fmt.Sprintf(`{"faculty_id": %q, "name": "מתמטיקה"}`, facultyId.Hex()))
		req := httptest.NewRequest(http.MethodPost, "/v1/departments", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, fmt.Sprintf("%q", newId.Hex()), rr.Body.String())
	})

	t.Run("Malformed faculty id is not found", func(t *testing.T) {
		h, _ := newTestHandler()

		body := []byte(`{"faculty_id": "not-a-hex", "name": "מתמטיקה"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/departments", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreateCourseHandler(t *testing.T) {
	departmentId := primitive.NewObjectID()

	t.Run("Success forwards number", func(t *testing.T) {
		h, s := newTestHandler()
		newId := primitive.NewObjectID()
		s.catalog.MockCreateCourse = func(department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error) {
			assert.Equal(t, departmentId, department)
			assert.Equal(t, "אלגברה לינארית", name)
			assert.Equal(t, "80134", number)
			return newId, nil
		}

		body := []byte(fmt.Sprintf(`{"department_id": %q, "name": "אלגברה לינארית", "number": "80134"}`, departmentId.Hex()))
		req := httptest.NewRequest(http.MethodPost, "/v1/courses", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, fmt.Sprintf("%q", newId.Hex()), rr.Body.String())
	})

	t.Run("Missing department propagates not found", func(t *testing.T) {
		h, s := newTestHandler()
		s.catalog.MockCreateCourse = func(department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error) {
			return domain.CourseId{}, internal_errors.DepartmentNotFound()
		}

		body := []byte(fmt.Sprintf(`{"department_id": %q, "name": "אלגברה לינארית"}`, departmentId.Hex()))
		req := httptest.NewRequest(http.MethodPost, "/v1/courses", bytes.NewReader(body))
		rr := doRequest(t, h, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteCatalogHandlers(t *testing.T) {
	t.Run("Faculty delete forwards id", func(t *testing.T) {
		h, s := newTestHandler()
		facultyId := primitive.NewObjectID()
		var deleted domain.FacultyId
		s.catalog.MockDeleteFaculty = func(id domain.FacultyId) error {
			deleted = id
			return nil
		}

		req := httptest.NewRequest(http.MethodDelete, "/v1/faculties/"+facultyId.Hex(), nil)
		rr := doRequest(t, h, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, facultyId, deleted)
	})

	t.Run("Malformed course id is not found", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest(http.MethodDelete, "/v1/courses/not-a-hex", nil)
		rr := doRequest(t, h, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
