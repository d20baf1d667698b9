package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type (
	UserId       = primitive.ObjectID
	ThreadId     = primitive.ObjectID
	CommentId    = primitive.ObjectID
	ExamId       = primitive.ObjectID
	FacultyId    = primitive.ObjectID
	DepartmentId = primitive.ObjectID
	CourseId     = primitive.ObjectID

	ThreadTitle = string
	Tags        = []string
)
