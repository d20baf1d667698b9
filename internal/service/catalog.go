package service

import (
	"context"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

// to mock service in tests
type CatalogService interface {
	CreateFaculty(ctx context.Context, name string, tags domain.Tags) (domain.FacultyId, error)
	CreateDepartment(ctx context.Context, faculty domain.FacultyId, name string, tags domain.Tags) (domain.DepartmentId, error)
	CreateCourse(ctx context.Context, department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error)
	Faculties(ctx context.Context) ([]domain.Faculty, error)
	Departments(ctx context.Context) ([]domain.Department, error)
	Courses(ctx context.Context) ([]domain.Course, error)
	DeleteFaculty(ctx context.Context, id domain.FacultyId) error
	DeleteDepartment(ctx context.Context, id domain.DepartmentId) error
	DeleteCourse(ctx context.Context, id domain.CourseId) error
}

type Catalog struct {
	storage CatalogStorage
	files   FileStorage
}

type CatalogStorage interface {
	CatalogReader
	CreateFaculty(ctx context.Context, name string, tags domain.Tags) (domain.FacultyId, error)
	CreateDepartment(ctx context.Context, faculty domain.FacultyId, name string, tags domain.Tags) (domain.DepartmentId, error)
	CreateCourse(ctx context.Context, department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error)
	ListFaculties(ctx context.Context) ([]domain.Faculty, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	// The delete methods cascade transitively down to exams (threads,
	// comments and user back-references included) and return the file
	// keys of every exam removed so the caller can drop the blobs.
	DeleteFaculty(ctx context.Context, id domain.FacultyId) ([]string, error)
	DeleteDepartment(ctx context.Context, id domain.DepartmentId) ([]string, error)
	DeleteCourse(ctx context.Context, id domain.CourseId) ([]string, error)
}

func NewCatalog(storage CatalogStorage, files FileStorage) *Catalog {
	return &Catalog{storage, files}
}

func (s *Catalog) CreateFaculty(ctx context.Context, name string, tags domain.Tags) (domain.FacultyId, error) {
	if name == "" {
		return domain.FacultyId{}, internal_errors.MissingFields("Faculty name is required")
	}
	return s.storage.CreateFaculty(ctx, name, domain.NormalizeTags(tags))
}

func (s *Catalog) CreateDepartment(ctx context.Context, faculty domain.FacultyId, name string, tags domain.Tags) (domain.DepartmentId, error) {
	if name == "" {
		return domain.DepartmentId{}, internal_errors.MissingFields("Department name is required")
	}
	if _, err := s.storage.GetFaculty(ctx, faculty); err != nil {
		return domain.DepartmentId{}, err
	}
	return s.storage.CreateDepartment(ctx, faculty, name, domain.NormalizeTags(tags))
}

func (s *Catalog) CreateCourse(ctx context.Context, department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error) {
	if name == "" {
		return domain.CourseId{}, internal_errors.MissingFields("Course name is required")
	}
	if _, err := s.storage.GetDepartment(ctx, department); err != nil {
		return domain.CourseId{}, err
	}
	return s.storage.CreateCourse(ctx, department, name, number, domain.NormalizeTags(tags))
}

func (s *Catalog) Faculties(ctx context.Context) ([]domain.Faculty, error) {
	return s.storage.ListFaculties(ctx)
}

func (s *Catalog) Departments(ctx context.Context) ([]domain.Department, error) {
	return s.storage.ListDepartments(ctx)
}

func (s *Catalog) Courses(ctx context.Context) ([]domain.Course, error) {
	return s.storage.ListCourses(ctx)
}

func (s *Catalog) DeleteFaculty(ctx context.Context, id domain.FacultyId) error {
	fileKeys, err := s.storage.DeleteFaculty(ctx, id)
	if err != nil {
		return err
	}
	s.deleteFiles(fileKeys)
	return nil
}

func (s *Catalog) DeleteDepartment(ctx context.Context, id domain.DepartmentId) error {
	fileKeys, err := s.storage.DeleteDepartment(ctx, id)
	if err != nil {
		return err
	}
	s.deleteFiles(fileKeys)
	return nil
}

func (s *Catalog) DeleteCourse(ctx context.Context, id domain.CourseId) error {
	fileKeys, err := s.storage.DeleteCourse(ctx, id)
	if err != nil {
		return err
	}
	s.deleteFiles(fileKeys)
	return nil
}

// deleteFiles drops cascaded exam blobs. The documents are already gone,
// so a failing blob delete only leaves an orphan file; log and move on.
func (s *Catalog) deleteFiles(keys []string) {
	for _, key := range keys {
		if err := s.files.Delete(key); err != nil {
			logger.Log.Error("failed to delete cascaded exam file", "key", key, "err", err)
		}
	}
}
