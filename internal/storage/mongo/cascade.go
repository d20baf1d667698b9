package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

// Cascading deletes. Each parent delete first resolves the full set of
// dependent ids, then applies the single-entity cascade to each, so the
// bulk and single paths share semantics. None of this is transactional:
// a crash mid-cascade can leave orphaned back-references.

// DeleteExam removes the exam's threads (comments and starred references
// included), pulls the exam from every user's favorites and rating
// history, then drops the exam document. The stored file is the service
// layer's responsibility.
func (s *Storage) DeleteExam(ctx context.Context, id domain.ExamId) error {
	if _, err := s.GetExam(ctx, id); err != nil {
		return err
	}
	if err := s.deleteExamCascade(ctx, id); err != nil {
		return err
	}

	result, err := s.col(collExams).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if result.DeletedCount == 0 {
		return internal_errors.ExamNotFound()
	}
	return nil
}

func (s *Storage) deleteExamCascade(ctx context.Context, id domain.ExamId) error {
	threadIds, err := s.threadIdsByExam(ctx, id)
	if err != nil {
		return err
	}
	for _, tid := range threadIds {
		if err := s.deleteThreadCascade(ctx, tid); err != nil {
			return err
		}
	}
	return s.PullExamFromAllUsers(ctx, id)
}

// deleteThreadCascade is the storage-side thread cascade used when a
// parent entity goes away: the whole subtree is removed, so per-node
// depth-first order collapses into one bulk comment delete.
func (s *Storage) deleteThreadCascade(ctx context.Context, id domain.ThreadId) error {
	if _, err := s.col(collComments).DeleteMany(ctx, bson.M{"thread_id": id}); err != nil {
		return fmt.Errorf("failed to delete thread comments: %w", err)
	}
	if err := s.PullThreadFromAllStars(ctx, id); err != nil {
		return err
	}
	if _, err := s.col(collThreads).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

func (s *Storage) threadIdsByExam(ctx context.Context, exam domain.ExamId) ([]domain.ThreadId, error) {
	cur, err := s.col(collThreads).Find(ctx, bson.M{"exam_id": exam})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dependent threads: %w", err)
	}

	var threads []domain.ThreadMetadata
	if err := cur.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode dependent threads: %w", err)
	}

	ids := make([]domain.ThreadId, len(threads))
	for i, t := range threads {
		ids[i] = t.Id
	}
	return ids, nil
}

// DeleteCourse cascades through the course's exams and returns their file
// keys for blob cleanup.
func (s *Storage) DeleteCourse(ctx context.Context, id domain.CourseId) ([]string, error) {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return nil, err
	}

	fileKeys, err := s.deleteExamsByCourses(ctx, []domain.CourseId{id})
	if err != nil {
		return nil, err
	}

	if _, err := s.col(collCourses).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, fmt.Errorf("failed to delete course: %w", err)
	}
	return fileKeys, nil
}

// DeleteDepartment cascades through every course of the department.
func (s *Storage) DeleteDepartment(ctx context.Context, id domain.DepartmentId) ([]string, error) {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return nil, err
	}

	fileKeys, err := s.deleteDepartmentCascade(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.col(collDepartments).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, fmt.Errorf("failed to delete department: %w", err)
	}
	return fileKeys, nil
}

// DeleteFaculty cascades through every department of the faculty.
func (s *Storage) DeleteFaculty(ctx context.Context, id domain.FacultyId) ([]string, error) {
	if _, err := s.GetFaculty(ctx, id); err != nil {
		return nil, err
	}

	cur, err := s.col(collDepartments).Find(ctx, bson.M{"faculty_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faculty departments: %w", err)
	}
	var departments []domain.Department
	if err := cur.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode faculty departments: %w", err)
	}

	var fileKeys []string
	for _, d := range departments {
		keys, err := s.deleteDepartmentCascade(ctx, d.Id)
		if err != nil {
			return nil, err
		}
		fileKeys = append(fileKeys, keys...)
		if _, err := s.col(collDepartments).DeleteOne(ctx, bson.M{"_id": d.Id}); err != nil {
			return nil, fmt.Errorf("failed to delete department: %w", err)
		}
	}

	if _, err := s.col(collFaculties).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, fmt.Errorf("failed to delete faculty: %w", err)
	}
	return fileKeys, nil
}

func (s *Storage) deleteDepartmentCascade(ctx context.Context, id domain.DepartmentId) ([]string, error) {
	cur, err := s.col(collCourses).Find(ctx, bson.M{"department_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch department courses: %w", err)
	}
	var courses []domain.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode department courses: %w", err)
	}

	courseIds := make([]domain.CourseId, len(courses))
	for i, c := range courses {
		courseIds[i] = c.Id
	}

	fileKeys, err := s.deleteExamsByCourses(ctx, courseIds)
	if err != nil {
		return nil, err
	}

	if len(courseIds) > 0 {
		if _, err := s.col(collCourses).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": courseIds}}); err != nil {
			return nil, fmt.Errorf("failed to delete department courses: %w", err)
		}
	}
	return fileKeys, nil
}

// deleteExamsByCourses is the bulk exam delete: resolve matching exam ids
// first, then run the single-exam cascade for each.
func (s *Storage) deleteExamsByCourses(ctx context.Context, courses []domain.CourseId) ([]string, error) {
	if len(courses) == 0 {
		return nil, nil
	}

	cur, err := s.col(collExams).Find(ctx, bson.M{"course_id": bson.M{"$in": courses}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course exams: %w", err)
	}
	var exams []domain.Exam
	if err := cur.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("failed to decode course exams: %w", err)
	}

	var fileKeys []string
	for _, exam := range exams {
		if err := s.deleteExamCascade(ctx, exam.Id); err != nil {
			return nil, err
		}
		if _, err := s.col(collExams).DeleteOne(ctx, bson.M{"_id": exam.Id}); err != nil {
			return nil, fmt.Errorf("failed to delete exam: %w", err)
		}
		fileKeys = append(fileKeys, exam.FileKey)
	}

	if len(exams) > 0 {
		logger.Log.Debug("cascaded exam deletion", "count", len(exams))
	}
	return fileKeys, nil
}
