package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

// to mock service in tests
type ExamService interface {
	Create(ctx context.Context, data domain.ExamCreationData, file io.Reader) (domain.ExamId, error)
	Get(ctx context.Context, id domain.ExamId) (domain.Exam, error)
	List(ctx context.Context, course domain.CourseId, page int) ([]domain.Exam, error)
	FileURL(ctx context.Context, id domain.ExamId) (string, error)
	Rate(ctx context.Context, id domain.ExamId, user domain.UserId, rating int) (domain.Exam, error)
	Favorite(ctx context.Context, id domain.ExamId, user domain.UserId) ([]domain.ExamId, error)
	Unfavorite(ctx context.Context, id domain.ExamId, user domain.UserId) ([]domain.ExamId, error)
	Delete(ctx context.Context, id domain.ExamId, requester domain.User) error
}

type Exam struct {
	storage ExamStorage
	users   ExamUserStorage
	catalog CatalogReader
	files   FileStorage
	perPage int
}

type ExamStorage interface {
	CreateExam(ctx context.Context, data domain.ExamCreationData) (domain.ExamId, error)
	GetExam(ctx context.Context, id domain.ExamId) (domain.Exam, error)
	ExamsByCourse(ctx context.Context, course domain.CourseId, page, perPage int) ([]domain.Exam, error)
	UpdateExamRating(ctx context.Context, id domain.ExamId, rating domain.DifficultyRating) error
	// DeleteExam cascades into dependent threads (with their comment and
	// star cleanup) and pulls the exam from every user's favorites and
	// rating history.
	DeleteExam(ctx context.Context, id domain.ExamId) error
}

// ExamUserStorage maintains favorite_exams and exams_ratings
// back-references.
type ExamUserStorage interface {
	UserExamRating(ctx context.Context, user domain.UserId, exam domain.ExamId) (rating int, rated bool, err error)
	UpsertUserExamRating(ctx context.Context, user domain.UserId, exam domain.ExamId, rating int) error
	AddFavoriteExam(ctx context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error)
	PullFavoriteExam(ctx context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error)
}

// CatalogReader resolves catalog names for file-key construction.
type CatalogReader interface {
	GetCourse(ctx context.Context, id domain.CourseId) (domain.Course, error)
	GetDepartment(ctx context.Context, id domain.DepartmentId) (domain.Department, error)
	GetFaculty(ctx context.Context, id domain.FacultyId) (domain.Faculty, error)
}

// FileStorage is the object-storage collaborator contract.
type FileStorage interface {
	Store(data io.Reader, key string, contentType string) error
	Delete(key string) error
	RetrievalURL(key string) (string, error)
}

func NewExam(storage ExamStorage, users ExamUserStorage, catalog CatalogReader, files FileStorage, perPage int) *Exam {
	return &Exam{storage, users, catalog, files, perPage}
}

// Create stores the uploaded file under a key derived from the catalog
// path and persists the exam document.
func (s *Exam) Create(ctx context.Context, data domain.ExamCreationData, file io.Reader) (domain.ExamId, error) {
	course, err := s.catalog.GetCourse(ctx, data.Course)
	if err != nil {
		return domain.ExamId{}, err
	}
	department, err := s.catalog.GetDepartment(ctx, course.Department)
	if err != nil {
		return domain.ExamId{}, err
	}
	faculty, err := s.catalog.GetFaculty(ctx, department.Faculty)
	if err != nil {
		return domain.ExamId{}, err
	}

	data.Tags = domain.NormalizeTags(data.Tags)
	data.FileKey = fmt.Sprintf("%s/%s/%s/%s.pdf", faculty.Name, department.Name, course.Name, uuid.NewString())

	if err := s.files.Store(file, data.FileKey, "application/pdf"); err != nil {
		return domain.ExamId{}, fmt.Errorf("failed to store exam file: %w", err)
	}

	id, err := s.storage.CreateExam(ctx, data)
	if err != nil {
		// storage failed after the file landed; drop the orphan
		if delErr := s.files.Delete(data.FileKey); delErr != nil {
			logger.Log.Error("orphan exam file left behind", "key", data.FileKey, "err", delErr)
		}
		return domain.ExamId{}, err
	}
	return id, nil
}

func (s *Exam) Get(ctx context.Context, id domain.ExamId) (domain.Exam, error) {
	return s.storage.GetExam(ctx, id)
}

func (s *Exam) List(ctx context.Context, course domain.CourseId, page int) ([]domain.Exam, error) {
	page = max(1, page)
	return s.storage.ExamsByCourse(ctx, course, page, s.perPage)
}

func (s *Exam) FileURL(ctx context.Context, id domain.ExamId) (string, error) {
	exam, err := s.storage.GetExam(ctx, id)
	if err != nil {
		return "", err
	}
	return s.files.RetrievalURL(exam.FileKey)
}

// Rate records a 1-5 difficulty rating. A first rating extends the running
// mean; a repeat rating by the same user replaces their previous one
// without touching the count. The exam aggregate and the user's history
// are two separate writes; concurrent ratings may race (last write wins).
func (s *Exam) Rate(ctx context.Context, id domain.ExamId, user domain.UserId, rating int) (domain.Exam, error) {
	if rating < 1 || rating > 5 {
		return domain.Exam{}, internal_errors.MissingFields("Rating must be between 1 and 5")
	}

	exam, err := s.storage.GetExam(ctx, id)
	if err != nil {
		return domain.Exam{}, err
	}

	previous, rated, err := s.users.UserExamRating(ctx, user, id)
	if err != nil {
		return domain.Exam{}, err
	}

	agg := exam.DifficultyRating
	if rated {
		agg.AverageRating = (agg.AverageRating*float64(agg.TotalRatings) - float64(previous) + float64(rating)) / float64(agg.TotalRatings)
	} else {
		agg.AverageRating = (agg.AverageRating*float64(agg.TotalRatings) + float64(rating)) / float64(agg.TotalRatings+1)
		agg.TotalRatings++
	}

	if err := s.storage.UpdateExamRating(ctx, id, agg); err != nil {
		return domain.Exam{}, err
	}
	if err := s.users.UpsertUserExamRating(ctx, user, id, rating); err != nil {
		return domain.Exam{}, err
	}

	exam.DifficultyRating = agg
	return exam, nil
}

// Favorite adds the exam to the user's favorites and returns the updated
// list. Idempotent.
func (s *Exam) Favorite(ctx context.Context, id domain.ExamId, user domain.UserId) ([]domain.ExamId, error) {
	if _, err := s.storage.GetExam(ctx, id); err != nil {
		return nil, err
	}
	return s.users.AddFavoriteExam(ctx, user, id)
}

func (s *Exam) Unfavorite(ctx context.Context, id domain.ExamId, user domain.UserId) ([]domain.ExamId, error) {
	if _, err := s.storage.GetExam(ctx, id); err != nil {
		return nil, err
	}
	return s.users.PullFavoriteExam(ctx, user, id)
}

// Delete removes the stored file, then the exam with its dependent threads
// and user back-references. Allowed for the uploader and admins.
func (s *Exam) Delete(ctx context.Context, id domain.ExamId, requester domain.User) error {
	exam, err := s.storage.GetExam(ctx, id)
	if err != nil {
		return err
	}
	if exam.Uploader != requester.Id && !requester.Admin {
		return internal_errors.AccessDenied("Only the uploader can delete an exam")
	}

	if err := s.files.Delete(exam.FileKey); err != nil {
		return fmt.Errorf("failed to delete exam file: %w", err)
	}
	return s.storage.DeleteExam(ctx, id)
}
