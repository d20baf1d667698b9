package domain

import "time"

// Comment is a node in a thread's discussion tree. The same entity serves
// top-level posts and nested replies: roots have a zero Parent.
// Documents are stored flat; Replies is assembled in memory on read.
type Comment struct {
	Id        CommentId `bson:"_id" json:"id"`
	Thread    ThreadId  `bson:"thread_id" json:"thread_id"`
	Parent    CommentId `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Sender    UserId    `bson:"sender_id" json:"sender_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Likes     []UserId  `bson:"likes" json:"likes"`

	Replies []*Comment `bson:"-" json:"replies"`
}

// to iterate thru layers: handler -> service -> storage
type CommentCreationData struct {
	Thread  ThreadId
	Parent  CommentId // zero for a root comment
	Title   string
	Content string
	Sender  UserId
}

// LikedBy reports whether userId is present in the likes set.
func (c *Comment) LikedBy(userId UserId) bool {
	for _, id := range c.Likes {
		if id == userId {
			return true
		}
	}
	return false
}
