package setup

import (
	"context"

	"github.com/examchan-dev/examchan/internal/config"
	"github.com/examchan-dev/examchan/internal/handler"
	"github.com/examchan-dev/examchan/internal/jwt"
	"github.com/examchan-dev/examchan/internal/middleware"
	"github.com/examchan-dev/examchan/internal/service"
	"github.com/examchan-dev/examchan/internal/storage/fs"
	"github.com/examchan-dev/examchan/internal/storage/mongo"
)

// Dependencies holds every initialized component of the application.
type Dependencies struct {
	Storage        *mongo.Storage
	Files          *fs.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := mongo.New(ctx, cfg.Public.Mongo)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureIndexes(ctx); err != nil {
		storage.Close(ctx)
		return nil, err
	}

	files, err := fs.New(cfg.Public.FileStoreRoot, cfg.Public.FileURLPrefix)
	if err != nil {
		storage.Close(ctx)
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	renderer := service.NewRenderer()

	comment := service.NewComment(storage, storage, renderer)
	thread := service.NewThread(storage, storage, storage, comment, renderer, cfg.Public.ThreadsPerPage)
	exam := service.NewExam(storage, storage, storage, files, cfg.Public.ExamsPerPage)
	search := service.NewSearch(storage)
	catalog := service.NewCatalog(storage, files)

	h := handler.New(thread, comment, exam, search, catalog, storage, cfg)

	return &Dependencies{
		Storage:        storage,
		Files:          files,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Config:         cfg,
	}, nil
}
