package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/trezcool/academia/core"
)

type (
	// Announcement mirrors the backend wire shape (GET /announcements).
	Announcement struct {
		ID        string    `json:"_id"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		Author    string    `json:"author"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Quiz mirrors the backend wire shape (GET /quizzes).
	Quiz struct {
		ID            string    `json:"_id"`
		Question      string    `json:"question"`
		Options       []string  `json:"options"`
		CorrectAnswer string    `json:"correctAnswer"`
		Course        string    `json:"course"`
		Topic         string    `json:"topic"`
		DueDate       time.Time `json:"dueDate"`
		CreatedAt     time.Time `json:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt"`
	}
)

// Completed reports whether the quiz's due date has passed.
func (q Quiz) Completed(now time.Time) bool {
	return !q.DueDate.After(now)
}

// FilterAll is the sentinel select-box value meaning "no filtering".
const FilterAll = "all"

type (
	// AnnouncementFilter applies an AND of its non-empty fields.
	// Search does a case-insensitive match on title or content.
	AnnouncementFilter struct {
		Search string
		Role   string
	}

	// QuizFilter applies an AND of its non-empty fields.
	// Search does a case-insensitive match on question, course or topic.
	QuizFilter struct {
		Search string
		Course string
		Topic  string
	}
)

func (f AnnouncementFilter) matches(a Announcement) bool {
	if search := core.CleanString(f.Search, true); search != "" {
		if !strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Content), search) {
			return false
		}
	}
	if !isAll(f.Role) && a.Role != f.Role {
		return false
	}
	return true
}

func (f QuizFilter) matches(q Quiz) bool {
	if search := core.CleanString(f.Search, true); search != "" {
		if !strings.Contains(strings.ToLower(q.Question), search) &&
			!strings.Contains(strings.ToLower(q.Course), search) &&
			!strings.Contains(strings.ToLower(q.Topic), search) {
			return false
		}
	}
	if !isAll(f.Course) && q.Course != f.Course {
		return false
	}
	if !isAll(f.Topic) && q.Topic != f.Topic {
		return false
	}
	return true
}

func isAll(val string) bool {
	return val == "" || val == FilterAll
}

// FilterAnnouncements returns the announcements matching the filter,
// preserving order.
func FilterAnnouncements(anns []Announcement, filter AnnouncementFilter) []Announcement {
	res := make([]Announcement, 0, len(anns))
	for _, a := range anns {
		if filter.matches(a) {
			res = append(res, a)
		}
	}
	return res
}

// FilterQuizzes returns the quizzes matching the filter, preserving order.
func FilterQuizzes(quizzes []Quiz, filter QuizFilter) []Quiz {
	res := make([]Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if filter.matches(q) {
			res = append(res, q)
		}
	}
	return res
}

// AnnouncementRoles returns the distinct roles present, sorted, for the
// role filter select box.
func AnnouncementRoles(anns []Announcement) []string {
	set := make(map[string]struct{}, len(anns))
	for _, a := range anns {
		set[a.Role] = struct{}{}
	}
	return sortedKeys(set)
}

// QuizCourses returns the distinct courses present, sorted.
func QuizCourses(quizzes []Quiz) []string {
	set := make(map[string]struct{}, len(quizzes))
	for _, q := range quizzes {
		set[q.Course] = struct{}{}
	}
	return sortedKeys(set)
}

// QuizTopics returns the distinct topics present, sorted.
func QuizTopics(quizzes []Quiz) []string {
	set := make(map[string]struct{}, len(quizzes))
	for _, q := range quizzes {
		set[q.Topic] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
