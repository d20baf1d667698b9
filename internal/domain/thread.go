package domain

import "time"

type ThreadMetadata struct {
	Id        ThreadId    `bson:"_id" json:"id"`
	Title     ThreadTitle `bson:"title" json:"title"`
	Exam      ExamId      `bson:"exam_id" json:"exam_id"`
	Creator   UserId      `bson:"creator_id" json:"creator_id"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	Views     int64       `bson:"views" json:"views"`
	Tags      Tags        `bson:"tags" json:"tags"`
	IsClosed  bool        `bson:"is_closed" json:"is_closed"`
}

type Thread struct {
	ThreadMetadata `bson:",inline"`
	Comments       []*Comment `bson:"-" json:"comments"` // roots only, replies nested
}

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Title     ThreadTitle
	Exam      ExamId
	Creator   UserId
	Tags      Tags
	OpComment CommentCreationData
}
