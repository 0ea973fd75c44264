package catalog

import "context"

// DummyRepository is an in-memory Repository for tests.
type DummyRepository struct {
	Announcements []Announcement
	Quizzes       []Quiz
	Err           error
}

var _ Repository = (*DummyRepository)(nil)

func (repo *DummyRepository) QueryAnnouncements(context.Context) ([]Announcement, error) {
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.Announcements, nil
}

func (repo *DummyRepository) QueryQuizzes(context.Context) ([]Quiz, error) {
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.Quizzes, nil
}
