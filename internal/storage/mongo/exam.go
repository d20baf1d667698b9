package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

func (s *Storage) CreateExam(ctx context.Context, data domain.ExamCreationData) (domain.ExamId, error) {
	exam := domain.Exam{
		Id:        primitive.NewObjectID(),
		FileKey:   data.FileKey,
		Course:    data.Course,
		Year:      data.Year,
		Semester:  data.Semester,
		Term:      data.Term,
		Type:      data.Type,
		Grade:     data.Grade,
		Lecturers: data.Lecturers,
		Tags:      data.Tags,
		Uploader:  data.Uploader,
	}
	if exam.Lecturers == nil {
		exam.Lecturers = []string{}
	}
	if exam.Tags == nil {
		exam.Tags = domain.Tags{}
	}

	if _, err := s.col(collExams).InsertOne(ctx, exam); err != nil {
		return domain.ExamId{}, fmt.Errorf("failed to insert exam: %w", err)
	}
	return exam.Id, nil
}

func (s *Storage) GetExam(ctx context.Context, id domain.ExamId) (domain.Exam, error) {
	var exam domain.Exam
	err := s.col(collExams).FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Exam{}, internal_errors.ExamNotFound()
		}
		return domain.Exam{}, fmt.Errorf("failed to fetch exam: %w", err)
	}
	return exam, nil
}

func (s *Storage) ExamsByCourse(ctx context.Context, course domain.CourseId, page, perPage int) ([]domain.Exam, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "semester", Value: -1}, {Key: "term", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := s.col(collExams).Find(ctx, bson.M{"course_id": course}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exams: %w", err)
	}

	var exams []domain.Exam
	if err := cur.All(ctx, &exams); err != nil {
		return nil, fmt.Errorf("failed to decode exams: %w", err)
	}
	return exams, nil
}

func (s *Storage) UpdateExamRating(ctx context.Context, id domain.ExamId, rating domain.DifficultyRating) error {
	result, err := s.col(collExams).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"difficulty_rating": rating}})
	if err != nil {
		return fmt.Errorf("failed to update exam rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.ExamNotFound()
	}
	return nil
}

// MergeExamTags unions tags into the exam's set, keeping it sorted. Plain
// read-modify-write; concurrent merges may drop each other's additions
// (accepted, tags are advisory).
func (s *Storage) MergeExamTags(ctx context.Context, id domain.ExamId, tags domain.Tags) error {
	exam, err := s.GetExam(ctx, id)
	if err != nil {
		return err
	}
	merged := domain.MergeTags(exam.Tags, tags)

	result, err := s.col(collExams).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"tags": merged}})
	if err != nil {
		return fmt.Errorf("failed to merge exam tags: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.ExamNotFound()
	}
	return nil
}

func (s *Storage) MergeCourseTags(ctx context.Context, id domain.CourseId, tags domain.Tags) error {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	merged := domain.MergeTags(course.Tags, tags)

	result, err := s.col(collCourses).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"tags": merged}})
	if err != nil {
		return fmt.Errorf("failed to merge course tags: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.CourseNotFound()
	}
	return nil
}
