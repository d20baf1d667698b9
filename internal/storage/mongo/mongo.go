// Package mongo implements the persistence layer on MongoDB. Documents
// are stored flat with denormalized back-references; the delete paths
// carry the cascade bookkeeping that keeps those references consistent.
package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/examchan-dev/examchan/internal/config"
)

const (
	collUsers       = "users"
	collFaculties   = "faculties"
	collDepartments = "departments"
	collCourses     = "courses"
	collExams       = "exams"
	collThreads     = "threads"
	collComments    = "comments"
)

type Storage struct {
	client *mongo.Client
	dbName string
}

func New(ctx context.Context, cfg config.Mongo) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("unable to establish DB connection: %w", err)
	}

	return &Storage{client: client, dbName: cfg.Dbname}, nil
}

// EnsureIndexes creates the unique catalog indexes. Duplicate inserts
// against them surface as conflicts.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	for coll, keys := range map[string]bson.D{
		collFaculties:   {{Key: "name", Value: 1}},
		collDepartments: {{Key: "faculty_id", Value: 1}, {Key: "name", Value: 1}},
		collCourses:     {{Key: "department_id", Value: 1}, {Key: "number", Value: 1}},
	} {
		_, err := s.col(coll).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: unique})
		if err != nil {
			return fmt.Errorf("failed to create %s index: %w", coll, err)
		}
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

func (s *Storage) col(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// regexAnyOf builds a case-insensitive substring $or over the given
// fields and words. Words are quoted so user input can't inject regex
// syntax.
func regexAnyOf(fields []string, words []string) bson.M {
	var or []bson.M
	for _, field := range fields {
		for _, word := range words {
			or = append(or, bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(word), Options: "i"}})
		}
	}
	return bson.M{"$or": or}
}
