package echoweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/catalog"
)

type (
	overviewPageData struct {
		Overview *catalog.Overview
		LoadErr  bool
	}

	announcementsPageData struct {
		Announcements []catalog.Announcement
		Roles         []string
		Filter        catalog.AnnouncementFilter
		LastDay       int
		LastWeek      int
		LoadErr       bool
	}

	quizzesPageData struct {
		Quizzes   []catalog.Quiz
		Courses   []string
		Topics    []string
		Filter    catalog.QuizFilter
		Active    int
		Completed int
		LoadErr   bool
	}
)

// sessionCatalog binds the catalog repository to the visitor's live bearer
// token so a logout mid-page-load degrades to the backend's 401 rather than
// reusing a stale token.
func (s *server) sessionCatalog(ctx echo.Context) *catalog.Service {
	bs := s.contextSession(ctx)
	return s.opts.NewCatalog(func() string {
		return bs.store.Current().Token
	})
}

func (s *server) dashboard(ctx echo.Context) error {
	ov, err := s.sessionCatalog(ctx).Overview(ctx.Request().Context())
	if err != nil {
		s.opts.Logger.Error("loading dashboard overview", err)
		return ctx.Render(http.StatusOK, "dashboard", overviewPageData{LoadErr: true})
	}
	return ctx.Render(http.StatusOK, "dashboard", overviewPageData{Overview: ov})
}

func (s *server) announcements(ctx echo.Context) error {
	filter := catalog.AnnouncementFilter{
		Search: ctx.QueryParam("search"),
		Role:   ctx.QueryParam("role"),
	}

	anns, err := s.sessionCatalog(ctx).QueryAnnouncements(ctx.Request().Context())
	if err != nil {
		s.opts.Logger.Error("loading announcements", err)
		return ctx.Render(http.StatusOK, "announcements", announcementsPageData{Filter: filter, LoadErr: true})
	}

	stats := catalog.ComputeStats(anns, nil, time.Now())
	return ctx.Render(http.StatusOK, "announcements", announcementsPageData{
		Announcements: catalog.FilterAnnouncements(anns, filter),
		Roles:         catalog.AnnouncementRoles(anns),
		Filter:        filter,
		LastDay:       stats.AnnouncementsLastDay,
		LastWeek:      stats.AnnouncementsLastWeek,
	})
}

func (s *server) quizzes(ctx echo.Context) error {
	filter := catalog.QuizFilter{
		Search: ctx.QueryParam("search"),
		Course: ctx.QueryParam("course"),
		Topic:  ctx.QueryParam("topic"),
	}

	quizzes, err := s.sessionCatalog(ctx).QueryQuizzes(ctx.Request().Context())
	if err != nil {
		s.opts.Logger.Error("loading quizzes", err)
		return ctx.Render(http.StatusOK, "quizzes", quizzesPageData{Filter: filter, LoadErr: true})
	}

	stats := catalog.ComputeStats(nil, quizzes, time.Now())
	return ctx.Render(http.StatusOK, "quizzes", quizzesPageData{
		Quizzes:   catalog.FilterQuizzes(quizzes, filter),
		Courses:   catalog.QuizCourses(quizzes),
		Topics:    catalog.QuizTopics(quizzes),
		Filter:    filter,
		Active:    stats.ActiveQuizzes,
		Completed: stats.CompletedQuizzes,
	})
}
