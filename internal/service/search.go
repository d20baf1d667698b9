package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/examchan-dev/examchan/internal/domain"
	internal_errors "github.com/examchan-dev/examchan/internal/errors"
)

// minWordLen is the shortest token used for field matching; shorter ones
// are noise.
const minWordLen = 3

// Hebrew filter phrases recognized inside free-text queries.
var (
	semesterPhrases = []struct {
		phrase   string
		semester int
	}{
		{"סמסטר א", 1},
		{"סמסטר ב", 2},
		{"סמסטר קיץ", 3},
	}
	termPhrases = []struct {
		phrase string
		term   int
	}{
		{"מועד א", 1},
		{"מועד ב", 2},
		{"מועד ג", 3},
	}
	typeWords = []struct {
		word     string
		examType string
	}{
		{"בוחן", domain.ExamTypeQuiz},
		{"מבחן", domain.ExamTypeTest},
	}
)

type SearchResult struct {
	Exams   []domain.Exam
	Threads []domain.ThreadMetadata
}

// to mock service in tests
type SearchService interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}

type Search struct {
	storage SearchStorage
}

// SearchStorage provides the case-insensitive substring matching
// primitives; any of the given words matching counts as a hit.
type SearchStorage interface {
	DepartmentsMatching(ctx context.Context, words []string) ([]domain.Department, error)
	CoursesMatching(ctx context.Context, words []string) ([]domain.Course, error)
	CoursesByDepartments(ctx context.Context, departments []domain.DepartmentId) ([]domain.Course, error)
	ExamsByCourses(ctx context.Context, courses []domain.CourseId) ([]domain.Exam, error)
	ExamsByLecturerOrTag(ctx context.Context, words []string) ([]domain.Exam, error)
	ThreadsMatching(ctx context.Context, words []string) ([]domain.ThreadMetadata, error)
}

func NewSearch(storage SearchStorage) *Search {
	return &Search{storage}
}

// Search decomposes the query into sub-queries, longest first, and returns
// the first successful match per category. Once both exams and threads
// have hits the remaining sub-queries are skipped.
func (s *Search) Search(ctx context.Context, query string) (SearchResult, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return SearchResult{}, internal_errors.MissingFields("Search query is required")
	}

	filter := extractExamFilter(query, tokens)

	var result SearchResult
	for _, subQuery := range getQuerySubQueries(tokens) {
		words := matchWords(subQuery)
		if len(words) == 0 {
			continue
		}

		if len(result.Exams) == 0 {
			exams, err := s.matchExams(ctx, words)
			if err != nil {
				return SearchResult{}, err
			}
			result.Exams = filter.apply(exams)
		}
		if len(result.Threads) == 0 {
			threads, err := s.storage.ThreadsMatching(ctx, words)
			if err != nil {
				return SearchResult{}, err
			}
			result.Threads = dedupThreads(threads)
		}
		if len(result.Exams) > 0 && len(result.Threads) > 0 {
			break
		}
	}
	return result, nil
}

// matchExams resolves one sub-query against the exam category. Department
// matches outrank course matches: when any department matches, exams are
// restricted to that department's courses and course names are not
// consulted for this sub-query. Lecturer and tag hits are unioned in
// either way.
func (s *Search) matchExams(ctx context.Context, words []string) ([]domain.Exam, error) {
	departments, err := s.storage.DepartmentsMatching(ctx, words)
	if err != nil {
		return nil, err
	}

	var courses []domain.Course
	if len(departments) > 0 {
		ids := make([]domain.DepartmentId, len(departments))
		for i, d := range departments {
			ids[i] = d.Id
		}
		courses, err = s.storage.CoursesByDepartments(ctx, ids)
	} else {
		courses, err = s.storage.CoursesMatching(ctx, words)
	}
	if err != nil {
		return nil, err
	}

	var exams []domain.Exam
	if len(courses) > 0 {
		ids := make([]domain.CourseId, len(courses))
		for i, c := range courses {
			ids[i] = c.Id
		}
		exams, err = s.storage.ExamsByCourses(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	extra, err := s.storage.ExamsByLecturerOrTag(ctx, words)
	if err != nil {
		return nil, err
	}
	return dedupExams(append(exams, extra...)), nil
}

// getQuerySubQueries generates every contiguous token slice rejoined with
// spaces, ordered by descending string length so the most specific phrase
// is tried first. Generation order (all singles, then pairs, ...) makes
// the sort stable ties resolve by start position.
func getQuerySubQueries(tokens []string) []string {
	var subQueries []string
	for size := 1; size <= len(tokens); size++ {
		for start := 0; start+size <= len(tokens); start++ {
			subQueries = append(subQueries, strings.Join(tokens[start:start+size], " "))
		}
	}
	sort.SliceStable(subQueries, func(i, j int) bool {
		return len(subQueries[i]) > len(subQueries[j])
	})
	return subQueries
}

// matchWords keeps the sub-query's tokens long enough to match on.
func matchWords(subQuery string) []string {
	var words []string
	for _, w := range strings.Fields(subQuery) {
		if utf8.RuneCountInString(w) >= minWordLen {
			words = append(words, w)
		}
	}
	return words
}

// examFilter narrows a sub-query's exam matches by structured hints
// extracted from the full query. Matching is never re-run after
// filtering.
type examFilter struct {
	year     int
	semester int
	term     int
	examType string
}

func extractExamFilter(query string, tokens []string) examFilter {
	var f examFilter

	for _, t := range tokens {
		if isYearToken(t) {
			f.year = int(t[0]-'0')*1000 + int(t[1]-'0')*100 + int(t[2]-'0')*10 + int(t[3]-'0')
			break
		}
	}
	for _, p := range semesterPhrases {
		if strings.Contains(query, p.phrase) {
			f.semester = p.semester
			break
		}
	}
	for _, p := range termPhrases {
		if strings.Contains(query, p.phrase) {
			f.term = p.term
			break
		}
	}
	for _, t := range typeWords {
		if strings.Contains(query, t.word) {
			f.examType = t.examType
			break
		}
	}
	return f
}

func isYearToken(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (f examFilter) apply(exams []domain.Exam) []domain.Exam {
	if f.year == 0 && f.semester == 0 && f.term == 0 && f.examType == "" {
		return exams
	}
	var out []domain.Exam
	for _, e := range exams {
		if f.year != 0 && e.Year != f.year {
			continue
		}
		if f.semester != 0 && e.Semester != f.semester {
			continue
		}
		if f.term != 0 && e.Term != f.term {
			continue
		}
		if f.examType != "" && e.Type != f.examType {
			continue
		}
		out = append(out, e)
	}
	return out
}

func dedupExams(exams []domain.Exam) []domain.Exam {
	seen := make(map[domain.ExamId]struct{}, len(exams))
	var out []domain.Exam
	for _, e := range exams {
		if _, ok := seen[e.Id]; ok {
			continue
		}
		seen[e.Id] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupThreads(threads []domain.ThreadMetadata) []domain.ThreadMetadata {
	seen := make(map[domain.ThreadId]struct{}, len(threads))
	var out []domain.ThreadMetadata
	for _, t := range threads {
		if _, ok := seen[t.Id]; ok {
			continue
		}
		seen[t.Id] = struct{}{}
		out = append(out, t)
	}
	return out
}
