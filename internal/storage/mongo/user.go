package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/examchan-dev/examchan/internal/domain"
)

// User documents are owned by the identity store; this layer only
// maintains the denormalized back-reference fields on them. Updates
// upsert so a user who never touched a star or favorite before still
// gets a record.

func (s *Storage) AddStarredThread(ctx context.Context, user domain.UserId, thread domain.ThreadId) ([]domain.ThreadId, error) {
	return s.updateStarredThreads(ctx, user, bson.M{"$addToSet": bson.M{"starred_threads": thread}})
}

func (s *Storage) PullStarredThread(ctx context.Context, user domain.UserId, thread domain.ThreadId) ([]domain.ThreadId, error) {
	return s.updateStarredThreads(ctx, user, bson.M{"$pull": bson.M{"starred_threads": thread}})
}

func (s *Storage) updateStarredThreads(ctx context.Context, user domain.UserId, update bson.M) ([]domain.ThreadId, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var record domain.UserRecord
	err := s.col(collUsers).FindOneAndUpdate(ctx, bson.M{"_id": user}, update, opts).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to update starred threads: %w", err)
	}
	if record.StarredThreads == nil {
		record.StarredThreads = []domain.ThreadId{}
	}
	return record.StarredThreads, nil
}

func (s *Storage) PullThreadFromAllStars(ctx context.Context, thread domain.ThreadId) error {
	_, err := s.col(collUsers).UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"starred_threads": thread}})
	if err != nil {
		return fmt.Errorf("failed to pull thread from starred lists: %w", err)
	}
	return nil
}

func (s *Storage) AddFavoriteExam(ctx context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error) {
	return s.updateFavoriteExams(ctx, user, bson.M{"$addToSet": bson.M{"favorite_exams": exam}})
}

func (s *Storage) PullFavoriteExam(ctx context.Context, user domain.UserId, exam domain.ExamId) ([]domain.ExamId, error) {
	return s.updateFavoriteExams(ctx, user, bson.M{"$pull": bson.M{"favorite_exams": exam}})
}

func (s *Storage) updateFavoriteExams(ctx context.Context, user domain.UserId, update bson.M) ([]domain.ExamId, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var record domain.UserRecord
	err := s.col(collUsers).FindOneAndUpdate(ctx, bson.M{"_id": user}, update, opts).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to update favorite exams: %w", err)
	}
	if record.FavoriteExams == nil {
		record.FavoriteExams = []domain.ExamId{}
	}
	return record.FavoriteExams, nil
}

// UserExamRating returns the user's stored rating for the exam, if any.
// A missing user record simply means "not rated yet".
func (s *Storage) UserExamRating(ctx context.Context, user domain.UserId, exam domain.ExamId) (int, bool, error) {
	var record domain.UserRecord
	err := s.col(collUsers).FindOne(ctx, bson.M{"_id": user}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to fetch user record: %w", err)
	}

	for _, r := range record.ExamsRatings {
		if r.Exam == exam {
			return r.DifficultyRating, true, nil
		}
	}
	return 0, false, nil
}

// UpsertUserExamRating overwrites the user's existing entry for the exam
// or appends a new one.
func (s *Storage) UpsertUserExamRating(ctx context.Context, user domain.UserId, exam domain.ExamId, rating int) error {
	result, err := s.col(collUsers).UpdateOne(ctx,
		bson.M{"_id": user, "exams_ratings.exam_id": exam},
		bson.M{"$set": bson.M{"exams_ratings.$.difficulty_rating": rating}},
	)
	if err != nil {
		return fmt.Errorf("failed to update exam rating entry: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	opts := options.Update().SetUpsert(true)
	_, err = s.col(collUsers).UpdateOne(ctx,
		bson.M{"_id": user},
		bson.M{"$push": bson.M{"exams_ratings": domain.ExamRating{Exam: exam, DifficultyRating: rating}}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to append exam rating entry: %w", err)
	}
	return nil
}

// PullExamFromAllUsers removes the exam from every favorite list and
// rating history. Part of the exam delete cascade.
func (s *Storage) PullExamFromAllUsers(ctx context.Context, exam domain.ExamId) error {
	_, err := s.col(collUsers).UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{
		"favorite_exams": exam,
		"exams_ratings":  bson.M{"exam_id": exam},
	}})
	if err != nil {
		return fmt.Errorf("failed to pull exam from user records: %w", err)
	}
	return nil
}
