package handler

import (
	"context"

	"github.com/examchan-dev/examchan/internal/config"
	"github.com/examchan-dev/examchan/internal/service"
)

// Pinger is the storage health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	thread  service.ThreadService
	comment service.CommentService
	exam    service.ExamService
	search  service.SearchService
	catalog service.CatalogService
	storage Pinger
	cfg     *config.Config
}

func New(
	thread service.ThreadService,
	comment service.CommentService,
	exam service.ExamService,
	search service.SearchService,
	catalog service.CatalogService,
	storage Pinger,
	cfg *config.Config,
) *Handler {
	return &Handler{thread, comment, exam, search, catalog, storage, cfg}
}
