package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/service"
)

func TestSearchHandler(t *testing.T) {
	t.Run("Both categories serialized", func(t *testing.T) {
		h, s := newTestHandler()
		var gotQuery string
		s.search.MockSearch = func(query string) (service.SearchResult, error) {
			gotQuery = query
			return service.SearchResult{
				Exams:   []domain.Exam{{Id: primitive.NewObjectID()}},
				Threads: []domain.ThreadMetadata{{Id: primitive.NewObjectID()}},
			}, nil
		}

		path := "/v1/search/" + url.PathEscape("אלגברה לינארית 2023")
		rr := doRequest(t, h, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "אלגברה לינארית 2023", gotQuery)
		assert.Contains(t, rr.Body.String(), `"exams"`)
		assert.Contains(t, rr.Body.String(), `"threads"`)
	})

	t.Run("Service rejection propagates", func(t *testing.T) {
		h, s := newTestHandler()
		s.search.MockSearch = func(query string) (service.SearchResult, error) {
			return service.SearchResult{}, internal_errors.MissingFields("Search query is required")
		}

		rr := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/v1/search/%20", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
