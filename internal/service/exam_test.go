package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

// --- Mocks ---

// MockExamStorage mocks the ExamStorage interface.
type MockExamStorage struct {
	createExamFunc       func(data domain.ExamCreationData) (domain.ExamId, error)
	getExamFunc          func(id domain.ExamId) (domain.Exam, error)
	examsByCourseFunc    func(course domain.CourseId, page, perPage int) ([]domain.Exam, error)
	updateExamRatingFunc func(id domain.ExamId, rating domain.DifficultyRating) error
	deleteExamFunc       func(id domain.ExamId) error

	deleteExamCalled bool
}

func (m *MockExamStorage) CreateExam(_ context.Context, data domain.ExamCreationData) (domain.ExamId, error) {
	if m.createExamFunc != nil {
		return m.createExamFunc(data)
	}
	return primitive.NewObjectID(), nil
}

func (m *MockExamStorage) GetExam(_ context.Context, id domain.ExamId) (domain.Exam, error) {
	if m.getExamFunc != nil {
		return m.getExamFunc(id)
	}
	return domain.Exam{Id: id}, nil
}

func (m *MockExamStorage) ExamsByCourse(_ context.Context, course domain.CourseId, page, perPage int) ([]domain.Exam, error) {
	if m.examsByCourseFunc != nil {
		return m.examsByCourseFunc(course, page, perPage)
	}
	return nil, nil
}

func (m *MockExamStorage) UpdateExamRating(_ context.Context, id domain.ExamId, rating domain.DifficultyRating) error {
	if m.updateExamRatingFunc != nil {
		return m.updateExamRatingFunc(id, rating)
	}
	return nil
}

func (m *MockExamStorage) DeleteExam(_ context.Context, id domain.ExamId) error {
	m.deleteExamCalled = true
	if m.deleteExamFunc != nil {
		return m.deleteExamFunc(id)
	}
	return nil
}

// MockExamUserStorage mocks the ExamUserStorage interface.
type MockExamUserStorage struct {
	userExamRatingFunc       func(user domain.UserId, exam domain.ExamId) (int, bool, error)
	upsertUserExamRatingFunc func(user domain.UserId, exam domain.ExamId, rating int) error
	addFavoriteFunc          func(user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error)
	pullFavoriteFunc         func(user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error)
}

func (m *MockExamUserStorage) UserExamRating(_ context.Context, user domain.UserId, exam domain.ExamId) (int, bool, error) {
	if m.userExamRatingFunc != nil {
		return m.userExamRatingFunc(user, exam)
	}
	return 0, false, nil
}

func (m *MockExamUserStorage) UpsertUserExamRating(_ context.Context, user domain.UserId, exam domain.ExamId, rating int) error {
	if m.upsertUserExamRatingFunc != nil {
		return m.upsertUserExamRatingFunc(user, exam, rating)
	}
	return nil
}

func (m *MockExamUserStorage) AddFavoriteExam(_ context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error) {
	if m.addFavoriteFunc != nil {
		return m.addFavoriteFunc(user, exam)
	}
	return []domain.ExamId{exam}, nil
}

func (m *MockExamUserStorage) PullFavoriteExam(_ context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error) {
	if m.pullFavoriteFunc != nil {
		return m.pullFavoriteFunc(user, exam)
	}
	return []domain.ExamId{}, nil
}

// MockCatalogReader mocks the CatalogReader interface.
type MockCatalogReader struct {
	getCourseFunc     func(id domain.CourseId) (domain.Course, error)
	getDepartmentFunc func(id domain.DepartmentId) (domain.Department, error)
	getFacultyFunc    func(id domain.FacultyId) (domain.Faculty, error)
}

func (m *MockCatalogReader) GetCourse(_ context.Context, id domain.CourseId) (domain.Course, error) {
	if m.getCourseFunc != nil {
		return m.getCourseFunc(id)
	}
	return domain.Course{Id: id, Name: "linear-algebra"}, nil
}

func (m *MockCatalogReader) GetDepartment(_ context.Context, id domain.DepartmentId) (domain.Department, error) {
	if m.getDepartmentFunc != nil {
		return m.getDepartmentFunc(id)
	}
	return domain.Department{Id: id, Name: "math"}, nil
}

func (m *MockCatalogReader) GetFaculty(_ context.Context, id domain.FacultyId) (domain.Faculty, error) {
	if m.getFacultyFunc != nil {
		return m.getFacultyFunc(id)
	}
	return domain.Faculty{Id: id, Name: "sciences"}, nil
}

// MockFileStorage mocks the FileStorage interface.
type MockFileStorage struct {
	storeFunc        func(data io.Reader, key, contentType string) error
	deleteFunc       func(key string) error
	retrievalURLFunc func(key string) (string, error)

	storedKeys  []string
	deletedKeys []string
}

func (m *MockFileStorage) Store(data io.Reader, key, contentType string) error {
	m.storedKeys = append(m.storedKeys, key)
	if m.storeFunc != nil {
		return m.storeFunc(data, key, contentType)
	}
	return nil
}

func (m *MockFileStorage) Delete(key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	if m.deleteFunc != nil {
		return m.deleteFunc(key)
	}
	return nil
}

func (m *MockFileStorage) RetrievalURL(key string) (string, error) {
	if m.retrievalURLFunc != nil {
		return m.retrievalURLFunc(key)
	}
	return "http://files.test/" + key, nil
}

func newExamService(storage *MockExamStorage, users *MockExamUserStorage, files *MockFileStorage) *Exam {
	return NewExam(storage, users, &MockCatalogReader{}, files, testPerPage)
}

// --- Tests ---

func TestExamCreate(t *testing.T) {
	ctx := context.Background()
	data := domain.ExamCreationData{
		Course:   primitive.NewObjectID(),
		Year:     2023,
		Semester: 1,
		Term:     1,
		Type:     domain.ExamTypeTest,
		Uploader: primitive.NewObjectID(),
	}
	file := bytes.NewReader([]byte("%PDF-1.4"))

	t.Run("File key derives from the catalog path", func(t *testing.T) {
		storage := &MockExamStorage{}
		files := &MockFileStorage{}
		var created domain.ExamCreationData
		storage.createExamFunc = func(d domain.ExamCreationData) (domain.ExamId, error) {
			created = d
			return primitive.NewObjectID(), nil
		}
		service := newExamService(storage, &MockExamUserStorage{}, files)

		_, err := service.Create(ctx, data, file)

		require.NoError(t, err)
		require.Len(t, files.storedKeys, 1)
		assert.True(t, strings.HasPrefix(created.FileKey, "sciences/math/linear-algebra/"))
		assert.True(t, strings.HasSuffix(created.FileKey, ".pdf"))
		assert.Equal(t, files.storedKeys[0], created.FileKey)
	})

	t.Run("Missing course rejected before any write", func(t *testing.T) {
		catalog := &MockCatalogReader{
			getCourseFunc: func(id domain.CourseId) (domain.Course, error) {
				return domain.Course{}, internal_errors.CourseNotFound()
			},
		}
		files := &MockFileStorage{}
		service := NewExam(&MockExamStorage{}, &MockExamUserStorage{}, catalog, files, testPerPage)

		_, err := service.Create(ctx, data, file)

		assert.True(t, internal_errors.IsKind(err, internal_errors.KindNotFound))
		assert.Empty(t, files.storedKeys)
	})

	t.Run("Document failure cleans up the stored file", func(t *testing.T) {
		storage := &MockExamStorage{
			createExamFunc: func(d domain.ExamCreationData) (domain.ExamId, error) {
				return domain.ExamId{}, errors.New("insert failed")
			},
		}
		files := &MockFileStorage{}
		service := newExamService(storage, &MockExamUserStorage{}, files)

		_, err := service.Create(ctx, data, file)

		assert.Error(t, err)
		require.Len(t, files.storedKeys, 1)
		assert.Equal(t, files.storedKeys, files.deletedKeys)
	})
}

func TestExamRate(t *testing.T) {
	ctx := context.Background()
	examId := primitive.NewObjectID()
	user := primitive.NewObjectID()

	rate := func(t *testing.T, current domain.DifficultyRating, previous int, rated bool, rating int) domain.DifficultyRating {
		t.Helper()
		storage := &MockExamStorage{
			getExamFunc: func(id domain.ExamId) (domain.Exam, error) {
				return domain.Exam{Id: id, DifficultyRating: current}, nil
			},
		}
		var updated domain.DifficultyRating
		storage.updateExamRatingFunc = func(id domain.ExamId, r domain.DifficultyRating) error {
			updated = r
			return nil
		}
		upserted := 0
		users := &MockExamUserStorage{
			userExamRatingFunc: func(u domain.UserId, e domain.ExamId) (int, bool, error) {
				return previous, rated, nil
			},
			upsertUserExamRatingFunc: func(u domain.UserId, e domain.ExamId, r int) error {
				upserted = r
				return nil
			},
		}
		service := newExamService(storage, users, &MockFileStorage{})

		exam, err := service.Rate(ctx, examId, user, rating)

		require.NoError(t, err)
		assert.Equal(t, updated, exam.DifficultyRating)
		assert.Equal(t, rating, upserted)
		return updated
	}

	t.Run("First rating on a fresh exam", func(t *testing.T) {
		got := rate(t, domain.DifficultyRating{}, 0, false, 4)
		assert.Equal(t, int64(1), got.TotalRatings)
		assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
	})

	t.Run("New rater extends the running mean", func(t *testing.T) {
		got := rate(t, domain.DifficultyRating{TotalRatings: 2, AverageRating: 3.0}, 0, false, 5)
		assert.Equal(t, int64(3), got.TotalRatings)
		assert.InDelta(t, 11.0/3.0, got.AverageRating, 1e-9)
	})

	t.Run("Re-rating replaces without changing the count", func(t *testing.T) {
		// one voter rated 4, then changes their mind to 2
		got := rate(t, domain.DifficultyRating{TotalRatings: 1, AverageRating: 4.0}, 4, true, 2)
		assert.Equal(t, int64(1), got.TotalRatings)
		assert.InDelta(t, 2.0, got.AverageRating, 1e-9)
	})

	t.Run("Re-rating among several voters shifts only one vote", func(t *testing.T) {
		// three voters: 5, 3, 4 -> avg 4; the 5 becomes a 1
		got := rate(t, domain.DifficultyRating{TotalRatings: 3, AverageRating: 4.0}, 5, true, 1)
		assert.Equal(t, int64(3), got.TotalRatings)
		assert.InDelta(t, 8.0/3.0, got.AverageRating, 1e-9)
	})

	t.Run("Out-of-range rating rejected", func(t *testing.T) {
		service := newExamService(&MockExamStorage{}, &MockExamUserStorage{}, &MockFileStorage{})

		for _, rating := range []int{0, 6, -1} {
			_, err := service.Rate(ctx, examId, user, rating)
			assert.True(t, internal_errors.IsKind(err, internal_errors.KindMissingFields))
		}
	})

	t.Run("Missing exam rejected", func(t *testing.T) {
		storage := &MockExamStorage{
			getExamFunc: func(id domain.ExamId) (domain.Exam, error) {
				return domain.Exam{}, internal_errors.ExamNotFound()
			},
		}
		service := newExamService(storage, &MockExamUserStorage{}, &MockFileStorage{})

		_, err := service.Rate(ctx, examId, user, 3)

		assert.True(t, internal_errors.IsKind(err, internal_errors.KindNotFound))
	})
}

func TestExamFavorite(t *testing.T) {
	ctx := context.Background()
	examId := primitive.NewObjectID()
	user := primitive.NewObjectID()

	t.Run("Favorite returns the updated list", func(t *testing.T) {
		service := newExamService(&MockExamStorage{}, &MockExamUserStorage{}, &MockFileStorage{})

		favorites, err := service.Favorite(ctx, examId, user)

		require.NoError(t, err)
		assert.Equal(t, []domain.ExamId{examId}, favorites)
	})

	t.Run("Favorite of a missing exam fails", func(t *testing.T) {
		storage := &MockExamStorage{
			getExamFunc: func(id domain.ExamId) (domain.Exam, error) {
				return domain.Exam{}, internal_errors.ExamNotFound()
			},
		}
		service := newExamService(storage, &MockExamUserStorage{}, &MockFileStorage{})

		_, err := service.Favorite(ctx, examId, user)

		assert.True(t, internal_errors.IsKind(err, internal_errors.KindNotFound))
	})

	t.Run("Unfavorite returns the shrunken list", func(t *testing.T) {
		service := newExamService(&MockExamStorage{}, &MockExamUserStorage{}, &MockFileStorage{})

		favorites, err := service.Unfavorite(ctx, examId, user)

		require.NoError(t, err)
		assert.Empty(t, favorites)
	})
}

func TestExamFileURL(t *testing.T) {
	ctx := context.Background()
	examId := primitive.NewObjectID()

	storage := &MockExamStorage{
		getExamFunc: func(id domain.ExamId) (domain.Exam, error) {
			return domain.Exam{Id: id, FileKey: "sciences/math/linear-algebra/abc.pdf"}, nil
		},
	}
	service := newExamService(storage, &MockExamUserStorage{}, &MockFileStorage{})

	url, err := service.FileURL(ctx, examId)

	require.NoError(t, err)
	assert.Equal(t, "http://files.test/sciences/math/linear-algebra/abc.pdf", url)
}

func TestExamDelete(t *testing.T) {
	ctx := context.Background()
	examId := primitive.NewObjectID()
	uploader := primitive.NewObjectID()

	storageWithUploader := func() *MockExamStorage {
		return &MockExamStorage{
			getExamFunc: func(id domain.ExamId) (domain.Exam, error) {
				return domain.Exam{Id: id, Uploader: uploader, FileKey: "k.pdf"}, nil
			},
		}
	}

	t.Run("Uploader deletes file then document", func(t *testing.T) {
		storage := storageWithUploader()
		files := &MockFileStorage{}
		service := newExamService(storage, &MockExamUserStorage{}, files)

		err := service.Delete(ctx, examId, domain.User{Id: uploader})

		require.NoError(t, err)
		assert.Equal(t, []string{"k.pdf"}, files.deletedKeys)
		assert.True(t, storage.deleteExamCalled)
	})

	t.Run("File delete failure keeps the document", func(t *testing.T) {
		storage := storageWithUploader()
		files := &MockFileStorage{
			deleteFunc: func(key string) error { return errors.New("io error") },
		}
		service := newExamService(storage, &MockExamUserStorage{}, files)

		err := service.Delete(ctx, examId, domain.User{Id: uploader})

		assert.Error(t, err)
		assert.False(t, storage.deleteExamCalled)
	})

	t.Run("Non-uploader denied, admin allowed", func(t *testing.T) {
		service := newExamService(storageWithUploader(), &MockExamUserStorage{}, &MockFileStorage{})

		err := service.Delete(ctx, examId, domain.User{Id: primitive.NewObjectID()})
		assert.True(t, internal_errors.IsKind(err, internal_errors.KindAccessDenied))

		err = service.Delete(ctx, examId, domain.User{Id: primitive.NewObjectID(), Admin: true})
		assert.NoError(t, err)
	})
}
