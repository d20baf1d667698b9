package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

func (s *Storage) CreateFaculty(ctx context.Context, name string, tags domain.Tags) (domain.FacultyId, error) {
	faculty := domain.Faculty{Id: primitive.NewObjectID(), Name: name, Tags: tags}
	if faculty.Tags == nil {
		faculty.Tags = domain.Tags{}
	}
	if _, err := s.col(collFaculties).InsertOne(ctx, faculty); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.FacultyId{}, internal_errors.Conflict("Faculty already exists")
		}
		return domain.FacultyId{}, fmt.Errorf("failed to insert faculty: %w", err)
	}
	return faculty.Id, nil
}

func (s *Storage) GetFaculty(ctx context.Context, id domain.FacultyId) (domain.Faculty, error) {
	var faculty domain.Faculty
	err := s.col(collFaculties).FindOne(ctx, bson.M{"_id": id}).Decode(&faculty)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Faculty{}, internal_errors.FacultyNotFound()
		}
		return domain.Faculty{}, fmt.Errorf("failed to fetch faculty: %w", err)
	}
	return faculty, nil
}

func (s *Storage) ListFaculties(ctx context.Context) ([]domain.Faculty, error) {
	cur, err := s.col(collFaculties).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faculties: %w", err)
	}
	var faculties []domain.Faculty
	if err := cur.All(ctx, &faculties); err != nil {
		return nil, fmt.Errorf("failed to decode faculties: %w", err)
	}
	return faculties, nil
}

func (s *Storage) CreateDepartment(ctx context.Context, faculty domain.FacultyId, name string, tags domain.Tags) (domain.DepartmentId, error) {
	department := domain.Department{Id: primitive.NewObjectID(), Faculty: faculty, Name: name, Tags: tags}
	if department.Tags == nil {
		department.Tags = domain.Tags{}
	}
	if _, err := s.col(collDepartments).InsertOne(ctx, department); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.DepartmentId{}, internal_errors.Conflict("Department already exists")
		}
		return domain.DepartmentId{}, fmt.Errorf("failed to insert department: %w", err)
	}
	return department.Id, nil
}

func (s *Storage) GetDepartment(ctx context.Context, id domain.DepartmentId) (domain.Department, error) {
	var department domain.Department
	err := s.col(collDepartments).FindOne(ctx, bson.M{"_id": id}).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Department{}, internal_errors.DepartmentNotFound()
		}
		return domain.Department{}, fmt.Errorf("failed to fetch department: %w", err)
	}
	return department, nil
}

func (s *Storage) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	cur, err := s.col(collDepartments).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	var departments []domain.Department
	if err := cur.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}
	return departments, nil
}

func (s *Storage) CreateCourse(ctx context.Context, department domain.DepartmentId, name, number string, tags domain.Tags) (domain.CourseId, error) {
	course := domain.Course{Id: primitive.NewObjectID(), Department: department, Name: name, Number: number, Tags: tags}
	if course.Tags == nil {
		course.Tags = domain.Tags{}
	}
	if _, err := s.col(collCourses).InsertOne(ctx, course); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.CourseId{}, internal_errors.Conflict("Course already exists")
		}
		return domain.CourseId{}, fmt.Errorf("failed to insert course: %w", err)
	}
	return course.Id, nil
}

func (s *Storage) GetCourse(ctx context.Context, id domain.CourseId) (domain.Course, error) {
	var course domain.Course
	err := s.col(collCourses).FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Course{}, internal_errors.CourseNotFound()
		}
		return domain.Course{}, fmt.Errorf("failed to fetch course: %w", err)
	}
	return course, nil
}

func (s *Storage) ListCourses(ctx context.Context) ([]domain.Course, error) {
	cur, err := s.col(collCourses).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}
	var courses []domain.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}
