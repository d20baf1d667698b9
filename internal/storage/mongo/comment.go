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

func (s *Storage) CreateComment(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error) {
	comment := domain.Comment{
		Id:        primitive.NewObjectID(),
		Thread:    data.Thread,
		Parent:    data.Parent,
		Title:     data.Title,
		Content:   data.Content,
		Sender:    data.Sender,
		CreatedAt: time.Now().UTC(),
		Likes:     []domain.UserId{},
	}

	if _, err := s.col(collComments).InsertOne(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	return comment, nil
}

func (s *Storage) GetComment(ctx context.Context, id domain.CommentId) (domain.Comment, error) {
	var comment domain.Comment
	err := s.col(collComments).FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Comment{}, internal_errors.CommentNotFound()
		}
		return domain.Comment{}, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return comment, nil
}

// UpdateComment applies a partial update; nil fields stay unchanged.
func (s *Storage) UpdateComment(ctx context.Context, id domain.CommentId, title, content *string) (domain.Comment, error) {
	set := bson.M{}
	if title != nil {
		set["title"] = *title
	}
	if content != nil {
		set["content"] = *content
	}
	if len(set) == 0 {
		return s.GetComment(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment domain.Comment
	err := s.col(collComments).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Comment{}, internal_errors.CommentNotFound()
		}
		return domain.Comment{}, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *Storage) AddCommentLike(ctx context.Context, id domain.CommentId, user domain.UserId) error {
	return s.updateCommentLikes(ctx, id, bson.M{"$addToSet": bson.M{"likes": user}})
}

func (s *Storage) PullCommentLike(ctx context.Context, id domain.CommentId, user domain.UserId) error {
	return s.updateCommentLikes(ctx, id, bson.M{"$pull": bson.M{"likes": user}})
}

func (s *Storage) updateCommentLikes(ctx context.Context, id domain.CommentId, update bson.M) error {
	result, err := s.col(collComments).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update comment likes: %w", err)
	}
	if result.MatchedCount == 0 {
		return internal_errors.CommentNotFound()
	}
	return nil
}

// CommentsByThread returns the thread's flat comment slice ordered by
// creation time ascending, ready for tree assembly.
func (s *Storage) CommentsByThread(ctx context.Context, thread domain.ThreadId) ([]*domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col(collComments).Find(ctx, bson.M{"thread_id": thread}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	var comments []*domain.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (s *Storage) DeleteComment(ctx context.Context, id domain.CommentId) error {
	result, err := s.col(collComments).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return internal_errors.CommentNotFound()
	}
	return nil
}
