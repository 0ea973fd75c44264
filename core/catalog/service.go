// Package catalog exposes the announcement and quiz collections served by
// the Academia backend, plus the filtering and derived statistics the
// dashboard pages are built on. The collections are small and read-only on
// this side; everything derived is computed over in-memory lists.
package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type (
	Repository interface {
		QueryAnnouncements(ctx context.Context) ([]Announcement, error)
		QueryQuizzes(ctx context.Context) ([]Quiz, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAnnouncements(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

func (svc *Service) QueryQuizzes(ctx context.Context) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx)
}

// Overview is the dashboard home data set: both collections fetched in one
// go plus the derived statistics.
type Overview struct {
	Announcements       []Announcement
	Quizzes             []Quiz
	RecentAnnouncements []Announcement
	RecentQuizzes       []Quiz
	Stats               Stats
}

// Overview fetches both collections in parallel; either failure fails the
// whole call (the page degrades to its "failed to load" state with a retry).
func (svc *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		anns    []Announcement
		quizzes []Quiz
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		anns, err = svc.repo.QueryAnnouncements(ctx)
		return
	})
	g.Go(func() (err error) {
		quizzes, err = svc.repo.QueryQuizzes(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		Announcements:       anns,
		Quizzes:             quizzes,
		RecentAnnouncements: RecentAnnouncements(anns, 3),
		RecentQuizzes:       RecentQuizzes(quizzes, 3),
		Stats:               ComputeStats(anns, quizzes, time.Now()),
	}, nil
}

// Stats are the derived numbers fed to the dashboard cards and charts.
type Stats struct {
	TotalAnnouncements int
	TotalQuizzes       int

	// chart feeds
	QuizzesByCourse     map[string]int
	AnnouncementsByRole map[string]int

	// due-date split
	ActiveQuizzes    int
	CompletedQuizzes int

	// recency counters
	AnnouncementsLastDay  int
	AnnouncementsLastWeek int
}

// ComputeStats derives the dashboard statistics from the two collections.
func ComputeStats(anns []Announcement, quizzes []Quiz, now time.Time) Stats {
	stats := Stats{
		TotalAnnouncements:  len(anns),
		TotalQuizzes:        len(quizzes),
		QuizzesByCourse:     make(map[string]int),
		AnnouncementsByRole: make(map[string]int),
	}

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, a := range anns {
		stats.AnnouncementsByRole[a.Role]++
		if a.CreatedAt.After(dayAgo) {
			stats.AnnouncementsLastDay++
		}
		if a.CreatedAt.After(weekAgo) {
			stats.AnnouncementsLastWeek++
		}
	}

	for _, q := range quizzes {
		stats.QuizzesByCourse[q.Course]++
		if q.Completed(now) {
			stats.CompletedQuizzes++
		} else {
			stats.ActiveQuizzes++
		}
	}
	return stats
}

// RecentAnnouncements returns the last n announcements, newest first.
func RecentAnnouncements(anns []Announcement, n int) []Announcement {
	if len(anns) < n {
		n = len(anns)
	}
	res := make([]Announcement, 0, n)
	for i := len(anns) - 1; i >= len(anns)-n; i-- {
		res = append(res, anns[i])
	}
	return res
}

// RecentQuizzes returns the last n quizzes, newest first.
func RecentQuizzes(quizzes []Quiz, n int) []Quiz {
	if len(quizzes) < n {
		n = len(quizzes)
	}
	res := make([]Quiz, 0, n)
	for i := len(quizzes) - 1; i >= len(quizzes)-n; i-- {
		res = append(res, quizzes[i])
	}
	return res
}
