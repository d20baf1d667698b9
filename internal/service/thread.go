package service

import (
	"context"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

// to mock service in tests
type ThreadService interface {
	Create(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error)
	Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	List(ctx context.Context, exam domain.ExamId, page int) ([]domain.ThreadMetadata, error)
	ToggleClosed(ctx context.Context, id domain.ThreadId, requester domain.User) (bool, error)
	EditTags(ctx context.Context, id domain.ThreadId, requester domain.User, tags domain.Tags) (domain.Tags, error)
	Star(ctx context.Context, id domain.ThreadId, user domain.UserId) ([]domain.ThreadId, error)
	Unstar(ctx context.Context, id domain.ThreadId, user domain.UserId) ([]domain.ThreadId, error)
	Delete(ctx context.Context, id domain.ThreadId, requester domain.User) error
}

type Thread struct {
	storage  ThreadStorage
	exams    ThreadExamStorage
	users    ThreadUserStorage
	comments CommentCascade
	renderer ContentRenderer
	perPage  int
}

type ThreadStorage interface {
	CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error)
	GetThreadMetadata(ctx context.Context, id domain.ThreadId) (domain.ThreadMetadata, error)
	CommentsByThread(ctx context.Context, thread domain.ThreadId) ([]*domain.Comment, error)
	IncrementThreadViews(ctx context.Context, id domain.ThreadId) error
	SetThreadClosed(ctx context.Context, id domain.ThreadId, closed bool) error
	SetThreadTags(ctx context.Context, id domain.ThreadId, tags domain.Tags) error
	DeleteThread(ctx context.Context, id domain.ThreadId) error
	ThreadsByExam(ctx context.Context, exam domain.ExamId, page, perPage int) ([]domain.ThreadMetadata, error)
}

// ThreadExamStorage covers the exam/course side effects of thread creation.
type ThreadExamStorage interface {
	GetExam(ctx context.Context, id domain.ExamId) (domain.Exam, error)
	MergeExamTags(ctx context.Context, id domain.ExamId, tags domain.Tags) error
	MergeCourseTags(ctx context.Context, id domain.CourseId, tags domain.Tags) error
}

// ThreadUserStorage maintains the starred_threads back-references.
type ThreadUserStorage interface {
	AddStarredThread(ctx context.Context, user domain.UserId, thread domain.ThreadId) ([]domain.ThreadId, error)
	PullStarredThread(ctx context.Context, user domain.UserId, thread domain.ThreadId) ([]domain.ThreadId, error)
	PullThreadFromAllStars(ctx context.Context, thread domain.ThreadId) error
}

// CommentCascade is the comment engine's recursive delete, consumed by the
// thread delete path.
type CommentCascade interface {
	DeleteAllInThread(ctx context.Context, thread domain.ThreadId) error
}

func NewThread(storage ThreadStorage, exams ThreadExamStorage, users ThreadUserStorage, comments CommentCascade, renderer ContentRenderer, perPage int) *Thread {
	return &Thread{storage, exams, users, comments, renderer, perPage}
}

// Create validates the referenced exam, normalizes tags and seeds the
// opening comment. The opening comment goes through the same render
// pipeline as every other comment. The submitted tags are also unioned
// into the exam's and its course's tag sets.
func (s *Thread) Create(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error) {
	if data.Title == "" {
		return domain.ThreadId{}, internal_errors.MissingFields("Thread title is required")
	}
	if data.OpComment.Content == "" {
		return domain.ThreadId{}, internal_errors.MissingFields("Opening comment content is required")
	}

	exam, err := s.exams.GetExam(ctx, data.Exam)
	if err != nil {
		return domain.ThreadId{}, err
	}

	content, err := s.renderer.Render(data.OpComment.Content)
	if err != nil {
		return domain.ThreadId{}, err
	}
	data.OpComment.Content = content

	data.Tags = domain.NormalizeTags(data.Tags)
	data.OpComment.Sender = data.Creator

	id, err := s.storage.CreateThread(ctx, data)
	if err != nil {
		return domain.ThreadId{}, err
	}

	if len(data.Tags) > 0 {
		if err := s.exams.MergeExamTags(ctx, exam.Id, data.Tags); err != nil {
			logger.Log.Error("merging tags into exam failed", "exam", exam.Id.Hex(), "err", err)
		}
		if err := s.exams.MergeCourseTags(ctx, exam.Course, data.Tags); err != nil {
			logger.Log.Error("merging tags into course failed", "course", exam.Course.Hex(), "err", err)
		}
	}
	return id, nil
}

// Get returns the thread with its assembled comment tree. A successful
// read bumps the view counter; the increment is a separate explicit step
// so tests can exercise reads without the write.
func (s *Thread) Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	thread, err := s.get(ctx, id)
	if err != nil {
		return domain.Thread{}, err
	}
	if err := s.storage.IncrementThreadViews(ctx, id); err != nil {
		return domain.Thread{}, err
	}
	thread.Views++
	return thread, nil
}

// get is the pure read: no view-count side effect.
func (s *Thread) get(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	meta, err := s.storage.GetThreadMetadata(ctx, id)
	if err != nil {
		return domain.Thread{}, err
	}
	comments, err := s.storage.CommentsByThread(ctx, id)
	if err != nil {
		return domain.Thread{}, err
	}
	return domain.Thread{ThreadMetadata: meta, Comments: domain.BuildCommentTree(comments)}, nil
}

func (s *Thread) List(ctx context.Context, exam domain.ExamId, page int) ([]domain.ThreadMetadata, error) {
	page = max(1, page)
	return s.storage.ThreadsByExam(ctx, exam, page, s.perPage)
}

// ToggleClosed flips the closed flag. Closing blocks comment and reply
// creation but not likes, edits or authorized deletes.
func (s *Thread) ToggleClosed(ctx context.Context, id domain.ThreadId, requester domain.User) (bool, error) {
	meta, err := s.storage.GetThreadMetadata(ctx, id)
	if err != nil {
		return false, err
	}
	if meta.Creator != requester.Id && !requester.Admin {
		return false, internal_errors.AccessDenied("Only the thread creator can close or open it")
	}

	if err := s.storage.SetThreadClosed(ctx, id, !meta.IsClosed); err != nil {
		return false, err
	}
	return !meta.IsClosed, nil
}

func (s *Thread) EditTags(ctx context.Context, id domain.ThreadId, requester domain.User, tags domain.Tags) (domain.Tags, error) {
	meta, err := s.storage.GetThreadMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.Creator != requester.Id && !requester.Admin {
		return nil, internal_errors.AccessDenied("Only the thread creator can edit tags")
	}

	tags = domain.NormalizeTags(tags)
	if err := s.storage.SetThreadTags(ctx, id, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Star adds the thread to the user's starred set and returns the updated
// set. Adding an already-starred thread is a no-op.
func (s *Thread) Star(ctx context.Context, id domain.ThreadId, user domain.UserId) ([]domain.ThreadId, error) {
	if _, err := s.storage.GetThreadMetadata(ctx, id); err != nil {
		return nil, err
	}
	return s.users.AddStarredThread(ctx, user, id)
}

func (s *Thread) Unstar(ctx context.Context, id domain.ThreadId, user domain.UserId) ([]domain.ThreadId, error) {
	if _, err := s.storage.GetThreadMetadata(ctx, id); err != nil {
		return nil, err
	}
	return s.users.PullStarredThread(ctx, user, id)
}

// Delete cascades: every comment of the thread first, then the thread id
// is pulled from all starred lists, then the thread document goes. The
// steps are not transactional; a crash mid-cascade can leave stale
// starred references.
func (s *Thread) Delete(ctx context.Context, id domain.ThreadId, requester domain.User) error {
	meta, err := s.storage.GetThreadMetadata(ctx, id)
	if err != nil {
		return err
	}
	if meta.Creator != requester.Id && !requester.Admin {
		return internal_errors.AccessDenied("Only the thread creator can delete it")
	}

	if err := s.comments.DeleteAllInThread(ctx, id); err != nil {
		return err
	}
	if err := s.users.PullThreadFromAllStars(ctx, id); err != nil {
		return err
	}
	return s.storage.DeleteThread(ctx, id)
}
