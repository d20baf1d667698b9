package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/examchan-dev/examchan/internal/domain"
)

// Search matching primitives. Each method does case-insensitive substring
// matching of any of the given words; ranking and filtering happen in the
// search service.

func (s *Storage) DepartmentsMatching(ctx context.Context, words []string) ([]domain.Department, error) {
	cur, err := s.col(collDepartments).Find(ctx, regexAnyOf([]string{"name"}, words))
	if err != nil {
		return nil, fmt.Errorf("failed to match departments: %w", err)
	}
	var departments []domain.Department
	if err := cur.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode matched departments: %w", err)
	}
	return departments, nil
}

func (s *Storage) CoursesMatching(ctx context.Context, words []string) ([]domain.Course, error) {
	cur, err := s.col(collCourses).Find(ctx, regexAnyOf([]string{"name"}, words))
	if err != nil {
		return nil, fmt.Errorf("failed to match courses: %w", err)
	}
	var courses []domain.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode matched courses: %w", err)
	}
	return courses, nil
}

func (s *Storage) CoursesByDepartments(ctx context.Context, departments []domain.DepartmentId) ([]domain.Course, error) {
	if len(departments) == 0 {
		return nil, nil
	}
	cur, err := s.col(collCourses).Find(ctx, bson.M{"department_id": bson.M{"$in": departments}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch department courses: %w", err)
	}
	var courses []domain.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode department courses: %w", err)
	}
	return courses, nil
}

func (s *Storage) ExamsByCourses(ctx context.Context, courses []domain.CourseId) ([]domain.Exam, error) {
	if len(courses) == 0 {
		return nil, nil
	}
	cur, err := s.col(collExams).Find(ctx, bson.M{"course_id": bson.M{"$in": courses}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exams by course: %w", err)
	}
	var exams []domain.Exam
	if err := cur.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("failed to decode exams by course: %w", err)
	}
	return exams, nil
}

func (s *Storage) ExamsByLecturerOrTag(ctx context.Context, words []string) ([]domain.Exam, error) {
	cur, err := s.col(collExams).Find(ctx, regexAnyOf([]string{"lecturers", "tags"}, words))
	if err != nil {
		return nil, fmt.Errorf("failed to match exams: %w", err)
	}
	var exams []domain.Exam
	if err := cur.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("failed to decode matched exams: %w", err)
	}
	return exams, nil
}

func (s *Storage) ThreadsMatching(ctx context.Context, words []string) ([]domain.ThreadMetadata, error) {
	cur, err := s.col(collThreads).Find(ctx, regexAnyOf([]string{"title", "tags"}, words))
	if err != nil {
		return nil, fmt.Errorf("failed to match threads: %w", err)
	}
	var threads []domain.ThreadMetadata
	if err := cur.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode matched threads: %w", err)
	}
	return threads, nil
}
