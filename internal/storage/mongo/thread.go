package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

// CreateThread inserts the thread document and seeds its opening comment.
// The two writes are not transactional; a crash in between leaves a
// thread without an op comment.
func (s *Storage) CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error) {
	meta := domain.ThreadMetadata{
		Id:        primitive.NewObjectID(),
		Title:     data.Title,
		Exam:      data.Exam,
		Creator:   data.Creator,
		CreatedAt: time.Now().UTC(),
		Views:     0,
		Tags:      data.Tags,
		IsClosed:  false,
	}
	if meta.Tags == nil {
		meta.Tags = domain.Tags{}
	}

	if _, err := s.col(collThreads).InsertOne(ctx, meta); err != nil {
		return domain.ThreadId{}, fmt.Errorf("failed to insert thread: %w", err)
	}

	data.OpComment.Thread = meta.Id
	data.OpComment.Parent = domain.CommentId{}
	if _, err := s.CreateComment(ctx, data.OpComment); err != nil {
		return domain.ThreadId{}, fmt.Errorf("failed to create op comment: %w", err)
	}

	return meta.Id, nil
}

func (s *Storage) GetThreadMetadata(ctx context.Context, id domain.ThreadId) (domain.ThreadMetadata, error) {
	var meta domain.ThreadMetadata
	err := s.col(collThreads).FindOne(ctx, bson.M{"_id": id}).Decode(&meta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ThreadMetadata{}, internal_errors.ThreadNotFound()
		}
		return domain.ThreadMetadata{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return meta, nil
}

func (s *Storage) IncrementThreadViews(ctx context.Context, id domain.ThreadId) error {
	result, err := s.col(collThreads).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.ThreadNotFound()
	}
	return nil
}

func (s *Storage) SetThreadClosed(ctx context.Context, id domain.ThreadId, closed bool) error {
	return s.setThreadField(ctx, id, "is_closed", closed)
}

func (s *Storage) SetThreadTags(ctx context.Context, id domain.ThreadId, tags domain.Tags) error {
	return s.setThreadField(ctx, id, "tags", tags)
}

func (s *Storage) setThreadField(ctx context.Context, id domain.ThreadId, field string, value interface{}) error {
	result, err := s.col(collThreads).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.ThreadNotFound()
	}
	return nil
}

// DeleteThread removes only the thread document. Comment and starred-list
// cleanup happen in the service-level cascade before this call.
func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	result, err := s.col(collThreads).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	if result.DeletedCount == 0 {
		return internal_errors.ThreadNotFound()
	}
	return nil
}

func (s *Storage) ThreadsByExam(ctx context.Context, exam domain.ExamId, page, perPage int) ([]domain.ThreadMetadata, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := s.col(collThreads).Find(ctx, bson.M{"exam_id": exam}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	var threads []domain.ThreadMetadata
	if err := cur.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode threads: %w", err)
	}
	return threads, nil
}
