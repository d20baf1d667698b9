package api

import "github.com/examchan-dev/examchan/internal/domain"

// Request DTOs

type CreateCommentRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content" validate:"required"`
}

type CreateThreadRequest struct {
	Title     string               `json:"title" validate:"required"`
	Exam      string               `json:"exam_id" validate:"required"`
	Tags      []string             `json:"tags,omitempty"`
	OpComment CreateCommentRequest `json:"op_comment"`
}

type EditCommentRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type EditTagsRequest struct {
	Tags []string `json:"tags" validate:"required"`
}

type RateExamRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type CreateFacultyRequest struct {
	Name string   `json:"name" validate:"required"`
	Tags []string `json:"tags,omitempty"`
}

type CreateDepartmentRequest struct {
	Faculty string   `json:"faculty_id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	Tags    []string `json:"tags,omitempty"`
}

type CreateCourseRequest struct {
	Department string   `json:"department_id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Number     string   `json:"number,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// CreateExamRequest is the json part of the multipart upload form.
type CreateExamRequest struct {
	Course    string   `json:"course_id" validate:"required"`
	Year      int      `json:"year" validate:"required,min=1900,max=2200"`
	Semester  int      `json:"semester" validate:"required,min=1,max=3"`
	Term      int      `json:"term" validate:"required,min=1,max=3"`
	Type      string   `json:"type" validate:"required,oneof=quiz test"`
	Grade     *int     `json:"grade,omitempty" validate:"omitempty,min=0,max=100"`
	Lecturers []string `json:"lecturers,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Response DTOs

type ThreadResponse struct {
	domain.Thread
}

type ExamResponse struct {
	domain.Exam
}

type SearchResponse struct {
	Exams   []domain.Exam           `json:"exams"`
	Threads []domain.ThreadMetadata `json:"threads"`
}

type LikeResponse struct {
	Likes int `json:"likes"`
}

type ClosedResponse struct {
	IsClosed bool `json:"is_closed"`
}

type StarredResponse struct {
	StarredThreads []domain.ThreadId `json:"starred_threads"`
}

type FavoritesResponse struct {
	FavoriteExams []domain.ExamId `json:"favorite_exams"`
}

type ThreadListResponse struct {
	Threads []domain.ThreadMetadata `json:"threads"`
}

type ExamListResponse struct {
	Exams []domain.Exam `json:"exams"`
}
