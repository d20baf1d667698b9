package service

import (
	"context"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

// to mock service in tests
type CommentService interface {
	Create(ctx context.Context, thread domain.ThreadId, data domain.CommentCreationData) (domain.Comment, error)
	Reply(ctx context.Context, thread domain.ThreadId, parent domain.CommentId, data domain.CommentCreationData) (domain.Comment, error)
	ToggleLike(ctx context.Context, id domain.CommentId, user domain.UserId) (int, error)
	Edit(ctx context.Context, id domain.CommentId, user domain.UserId, title, content *string) (domain.Comment, error)
	Delete(ctx context.Context, thread domain.ThreadId, id domain.CommentId, requester domain.User) error
}

type Comment struct {
	storage  CommentStorage
	threads  ThreadMetadataStorage
	renderer ContentRenderer
}

type CommentStorage interface {
	CreateComment(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error)
	GetComment(ctx context.Context, id domain.CommentId) (domain.Comment, error)
	UpdateComment(ctx context.Context, id domain.CommentId, title, content *string) (domain.Comment, error)
	AddCommentLike(ctx context.Context, id domain.CommentId, user domain.UserId) error
	PullCommentLike(ctx context.Context, id domain.CommentId, user domain.UserId) error
	CommentsByThread(ctx context.Context, thread domain.ThreadId) ([]*domain.Comment, error)
	DeleteComment(ctx context.Context, id domain.CommentId) error
}

// ThreadMetadataStorage is the slice of thread storage the comment engine
// needs for closed/ownership checks.
type ThreadMetadataStorage interface {
	GetThreadMetadata(ctx context.Context, id domain.ThreadId) (domain.ThreadMetadata, error)
}

// ContentRenderer turns submitted comment bodies into stored HTML.
type ContentRenderer interface {
	Render(text string) (string, error)
}

func NewComment(storage CommentStorage, threads ThreadMetadataStorage, renderer ContentRenderer) *Comment {
	return &Comment{storage, threads, renderer}
}

// Create attaches a new root comment to an open thread.
func (s *Comment) Create(ctx context.Context, thread domain.ThreadId, data domain.CommentCreationData) (domain.Comment, error) {
	meta, err := s.threads.GetThreadMetadata(ctx, thread)
	if err != nil {
		return domain.Comment{}, err
	}
	if meta.IsClosed {
		return domain.Comment{}, internal_errors.ThreadClosed()
	}

	data.Thread = thread
	data.Parent = domain.CommentId{}
	return s.create(ctx, data)
}

// Reply attaches a new comment under an existing one.
func (s *Comment) Reply(ctx context.Context, thread domain.ThreadId, parent domain.CommentId, data domain.CommentCreationData) (domain.Comment, error) {
	meta, err := s.threads.GetThreadMetadata(ctx, thread)
	if err != nil {
		return domain.Comment{}, err
	}
	if meta.IsClosed {
		return domain.Comment{}, internal_errors.ThreadClosed()
	}

	parentComment, err := s.storage.GetComment(ctx, parent)
	if err != nil {
		return domain.Comment{}, err
	}
	if parentComment.Thread != thread {
		return domain.Comment{}, internal_errors.CommentNotFound()
	}

	data.Thread = thread
	data.Parent = parent
	return s.create(ctx, data)
}

// Cycles are impossible structurally: only freshly created nodes are ever
// linked, existing ones are never re-parented.
func (s *Comment) create(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error) {
	if data.Content == "" {
		return domain.Comment{}, internal_errors.MissingFields("Comment content is required")
	}
	content, err := s.renderer.Render(data.Content)
	if err != nil {
		return domain.Comment{}, err
	}
	data.Content = content

	return s.storage.CreateComment(ctx, data)
}

// ToggleLike flips the requester's presence in the likes set and returns
// the resulting like count. Repeated toggles are idempotent per click.
func (s *Comment) ToggleLike(ctx context.Context, id domain.CommentId, user domain.UserId) (int, error) {
	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return 0, err
	}

	if comment.LikedBy(user) {
		if err := s.storage.PullCommentLike(ctx, id, user); err != nil {
			return 0, err
		}
		return len(comment.Likes) - 1, nil
	}
	if err := s.storage.AddCommentLike(ctx, id, user); err != nil {
		return 0, err
	}
	return len(comment.Likes) + 1, nil
}

// Edit applies a partial update. Only the original sender may edit.
func (s *Comment) Edit(ctx context.Context, id domain.CommentId, user domain.UserId, title, content *string) (domain.Comment, error) {
	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if comment.Sender != user {
		return domain.Comment{}, internal_errors.AccessDenied("Only the sender can edit a comment")
	}

	if content != nil {
		if *content == "" {
			return domain.Comment{}, internal_errors.MissingFields("Comment content is required")
		}
		rendered, err := s.renderer.Render(*content)
		if err != nil {
			return domain.Comment{}, err
		}
		content = &rendered
	}

	return s.storage.UpdateComment(ctx, id, title, content)
}

// Delete removes a comment and every transitive reply, depth-first.
// Allowed for the sender, the thread creator and admins. A node already
// removed by a concurrent delete is treated as done, not as a failure.
func (s *Comment) Delete(ctx context.Context, thread domain.ThreadId, id domain.CommentId, requester domain.User) error {
	meta, err := s.threads.GetThreadMetadata(ctx, thread)
	if err != nil {
		return err
	}
	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.Thread != thread {
		return internal_errors.CommentNotFound()
	}
	if comment.Sender != requester.Id && meta.Creator != requester.Id && !requester.Admin {
		return internal_errors.AccessDenied("Only the sender or thread creator can delete a comment")
	}

	return s.deleteSubtree(ctx, thread, id)
}

func (s *Comment) deleteSubtree(ctx context.Context, thread domain.ThreadId, root domain.CommentId) error {
	all, err := s.storage.CommentsByThread(ctx, thread)
	if err != nil {
		return err
	}

	children := make(map[domain.CommentId][]domain.CommentId, len(all))
	for _, c := range all {
		if !c.Parent.IsZero() {
			children[c.Parent] = append(children[c.Parent], c.Id)
		}
	}

	for _, id := range postOrder(children, root) {
		if err := s.storage.DeleteComment(ctx, id); err != nil {
			if internal_errors.IsKind(err, internal_errors.KindNotFound) {
				continue // lost a race with a concurrent delete
			}
			return err
		}
	}
	return nil
}

// postOrder walks the children index depth-first and returns every id in
// the subtree, descendants before their parent, root last.
func postOrder(children map[domain.CommentId][]domain.CommentId, root domain.CommentId) []domain.CommentId {
	var order []domain.CommentId
	var walk func(id domain.CommentId)
	walk = func(id domain.CommentId) {
		for _, child := range children[id] {
			walk(child)
		}
		order = append(order, id)
	}
	walk(root)
	return order
}

// DeleteAllInThread cascades over every comment of a thread. Used by the
// thread delete path; authorization happens there.
func (s *Comment) DeleteAllInThread(ctx context.Context, thread domain.ThreadId) error {
	all, err := s.storage.CommentsByThread(ctx, thread)
	if err != nil {
		return err
	}

	children := make(map[domain.CommentId][]domain.CommentId, len(all))
	var roots []domain.CommentId
	for _, c := range all {
		if c.Parent.IsZero() {
			roots = append(roots, c.Id)
		} else {
			children[c.Parent] = append(children[c.Parent], c.Id)
		}
	}

	for _, root := range roots {
		for _, id := range postOrder(children, root) {
			if err := s.storage.DeleteComment(ctx, id); err != nil {
				if internal_errors.IsKind(err, internal_errors.KindNotFound) {
					continue
				}
				return err
			}
		}
	}

	if len(all) > 0 {
		logger.Log.Debug("deleted thread comments", "thread", thread.Hex(), "count", len(all))
	}
	return nil
}
