package domain

const (
	ExamTypeQuiz = "quiz"
	ExamTypeTest = "test"
)

// DifficultyRating is the running mean of all per-user ratings.
// TotalRatings counts distinct rating users, one rating per user per exam.
type DifficultyRating struct {
	TotalRatings  int64   `bson:"total_ratings" json:"total_ratings"`
	AverageRating float64 `bson:"average_rating" json:"average_rating"`
}

type Exam struct {
	Id               ExamId           `bson:"_id" json:"id"`
	FileKey          string           `bson:"file_key" json:"file_key"`
	Course           CourseId         `bson:"course_id" json:"course_id"`
	Year             int              `bson:"year" json:"year"`
	Semester         int              `bson:"semester" json:"semester"` // 1, 2 or 3 (summer)
	Term             int              `bson:"term" json:"term"`         // 1, 2 or 3
	Type             string           `bson:"type" json:"type"`
	Grade            *int             `bson:"grade,omitempty" json:"grade,omitempty"`
	Lecturers        []string         `bson:"lecturers" json:"lecturers"`
	Tags             Tags             `bson:"tags" json:"tags"`
	Uploader         UserId           `bson:"uploader_id" json:"uploader_id"`
	DifficultyRating DifficultyRating `bson:"difficulty_rating" json:"difficulty_rating"`
}

// to iterate thru layers: handler -> service -> storage
type ExamCreationData struct {
	Course    CourseId
	Year      int
	Semester  int
	Term      int
	Type      string
	Grade     *int
	Lecturers []string
	Tags      Tags
	Uploader  UserId
	FileKey   string
}
