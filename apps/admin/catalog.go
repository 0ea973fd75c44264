package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/academia/core/catalog"
)

var errNotSignedIn = errors.New("not signed in; run the login command first")

func (cli *commandLine) listAnnouncements(filter catalog.AnnouncementFilter) error {
	if !cli.store.Current().IsAuthenticated {
		return errNotSignedIn
	}

	anns, err := cli.catSvc.QueryAnnouncements(context.Background())
	if err != nil {
		return err
	}
	anns = catalog.FilterAnnouncements(anns, filter)

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CREATED\tAUDIENCE\tAUTHOR\tTITLE")
	for _, a := range anns {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.CreatedAt.Format("2006-01-02"), a.Role, a.Author, a.Title)
	}
	return w.Flush()
}

func (cli *commandLine) listQuizzes(filter catalog.QuizFilter) error {
	if !cli.store.Current().IsAuthenticated {
		return errNotSignedIn
	}

	quizzes, err := cli.catSvc.QueryQuizzes(context.Background())
	if err != nil {
		return err
	}
	quizzes = catalog.FilterQuizzes(quizzes, filter)

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tCOURSE\tTOPIC\tQUESTION")
	for _, q := range quizzes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.DueDate.Format("2006-01-02"), q.Course, q.Topic, q.Question)
	}
	return w.Flush()
}
