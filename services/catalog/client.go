// Package catalogsvc implements catalog.Repository against the Academia
// REST backend.
package catalogsvc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

const (
	announcementsPath = "/announcements"
	quizzesPath       = "/quizzes"
)

// TokenFunc supplies the current bearer token; it is read on every request
// so the repository always follows the live session.
type TokenFunc func() string

type Repository struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
}

var _ catalog.Repository = (*Repository)(nil)

func NewRepository(conf *core.Config, token TokenFunc) *Repository {
	return &Repository{
		baseURL: conf.API.BaseURL,
		http:    &http.Client{Timeout: conf.API.Timeout},
		token:   token,
	}
}

func (repo *Repository) QueryAnnouncements(ctx context.Context) ([]catalog.Announcement, error) {
	var anns []catalog.Announcement
	if err := repo.get(ctx, announcementsPath, &anns); err != nil {
		return nil, errors.Wrap(err, "fetching announcements")
	}
	return anns, nil
}

func (repo *Repository) QueryQuizzes(ctx context.Context) ([]catalog.Quiz, error) {
	var quizzes []catalog.Quiz
	if err := repo.get(ctx, quizzesPath, &quizzes); err != nil {
		return nil, errors.Wrap(err, "fetching quizzes")
	}
	return quizzes, nil
}

func (repo *Repository) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, repo.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if repo.token != nil {
		if token := repo.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := repo.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling backend")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("backend returned %d", resp.StatusCode)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response")
}
