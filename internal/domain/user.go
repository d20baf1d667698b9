package domain

// User is what the identity collaborator supplies per request.
// The core trusts Id and Admin without re-validation.
type User struct {
	Id    UserId
	Admin bool
}

// UserRecord holds the persisted back-reference fields the core maintains
// on the identity store's user documents.
type UserRecord struct {
	Id             UserId       `bson:"_id"`
	FavoriteExams  []ExamId     `bson:"favorite_exams"`
	StarredThreads []ThreadId   `bson:"starred_threads"`
	ExamsRatings   []ExamRating `bson:"exams_ratings"`
}

// ExamRating is one entry of a user's personal rating history.
// One entry per exam ever rated, upsert semantics.
type ExamRating struct {
	Exam             ExamId `bson:"exam_id" json:"exam_id"`
	DifficultyRating int    `bson:"difficulty_rating" json:"difficulty_rating"`
}
